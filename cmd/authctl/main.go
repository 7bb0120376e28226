package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/authctl/cli"
	"github.com/dmitrijs2005/shopkeeper/internal/authctl/client"
	"github.com/dmitrijs2005/shopkeeper/internal/authctl/config"
	"github.com/dmitrijs2005/shopkeeper/internal/gateway"
)

func main() {
	if err := run(context.Background(), config.LoadConfig()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var verifier gateway.Verifier = gateway.NewHTTPVerifier(cfg.AuthServiceURL, nil)
	if cfg.AuthGRPCAddr != "" {
		v, conn, err := gateway.DialGRPC(cfg.AuthGRPCAddr)
		if err != nil {
			return err
		}
		defer conn.Close()
		verifier = v
	}

	app := cli.NewApp(client.New(cfg.AuthServiceURL, cfg.Timeout), verifier, os.Stdin, os.Stdout, cfg.Timeout)
	return app.Run(ctx, config.Command())
}
