package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Apurer/go-gin-commerce-api/internal/app/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := api.RunWorker(ctx); err != nil {
		log.Fatalf("commerce worker failed: %v", err)
	}
}
