package main

import (
	"context"
	"log"

	"github.com/mdbo/porto-houses-web-scraper/internal"
)

func main() {
	application, err := internal.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(context.Background()); err != nil {
		log.Fatalf("Application run failed: %v", err)
	}
}
