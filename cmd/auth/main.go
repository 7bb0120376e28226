package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/shopkeeper/internal/auth"
	"github.com/dmitrijs2005/shopkeeper/internal/auth/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := auth.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
