package main

import (
	"context"
	"log"

	"github.com/Apurer/go-gin-order-processor/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("order processing API stopped: %v", err)
	}
}
