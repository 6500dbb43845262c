package sapofetcher

import "testing"

func TestNewSapoFetcherAdapterRejectsBadBase(t *testing.T) {
	if _, err := NewSapoFetcherAdapter("://bad", "agent"); err == nil {
		t.Error("want error for unparseable base URI")
	}
	if _, err := NewSapoFetcherAdapter("/just/a/path", "agent"); err == nil {
		t.Error("want error for base URI without a host")
	}
}

func TestSearchURI(t *testing.T) {
	adapter := testAdapter(t)

	got := adapter.SearchURI("/Venda/Apartamentos/Porto/?sa=13&or=10")
	want := "https://casa.sapo.pt/Venda/Apartamentos/Porto/?sa=13&or=10"
	if got != want {
		t.Errorf("SearchURI = %q, want %q", got, want)
	}

	if got := adapter.SearchURI(""); got != "https://casa.sapo.pt" {
		t.Errorf("SearchURI(\"\") = %q, want the base URI", got)
	}
}
