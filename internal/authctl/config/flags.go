package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

// parseFlags applies:
//
//	-u string   auth service URL
//	-g string   auth gRPC address, used by verify
//	-o int      request timeout in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-g", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthServiceURL, "u", cfg.AuthServiceURL, "auth service URL")
	fs.StringVar(&cfg.AuthGRPCAddr, "g", cfg.AuthGRPCAddr, "auth gRPC address")
	timeout := fs.Int("o", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "o" {
			cfg.Timeout = time.Duration(*timeout) * time.Second
		}
	})
}
