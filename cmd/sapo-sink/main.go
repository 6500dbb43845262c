package main

import (
	"log"

	"github.com/mdbo/porto-houses-web-scraper/internal"
)

func main() {
	sink, err := internal.NewSinkApp()
	if err != nil {
		log.Fatalf("Failed to initialize sink: %v", err)
	}

	if err := sink.Run(); err != nil {
		log.Fatalf("Sink run failed: %v", err)
	}
}
