package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/shopkeeper/internal/alerts"
	"github.com/dmitrijs2005/shopkeeper/internal/alerts/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := alerts.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
