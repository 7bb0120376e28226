package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

// parseFlags applies the command-line flags. Durations are seconds; API
// keys are only read from the environment or the JSON file.
//
//	-a string   HTTP bind address
//	-p string   supplier price URL
//	-o int      request timeout
//	-f float    fallback supplier price
//	-b string   S3 bucket holding the price document
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-o", "-f", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address")
	fs.StringVar(&config.PriceURL, "p", config.PriceURL, "supplier price URL")
	timeout := fs.Int("o", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.Float64Var(&config.FallbackPrice, "f", config.FallbackPrice, "fallback supplier price")
	fs.StringVar(&config.PriceS3Bucket, "b", config.PriceS3Bucket, "S3 bucket with the price document")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "o" {
			config.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
