package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config, clients and the HTTP server come out of the wire graph; any
	// failure here is a bad deployment, not a runtime condition.
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("solar-advisor: wiring failed: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("solar-advisor: %v", err)
	}
}
