package main

import (
	"context"
	"log"

	"github.com/openmall/order-api-server/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("order API exited: %v", err)
	}
}
