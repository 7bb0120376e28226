package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/flagx"
)

// parseFlags applies the short command-line flags. Durations are seconds.
//
//	-a string   HTTP bind address
//	-d string   PostgreSQL DSN
//	-u string   auth service URL
//	-g string   auth gRPC address (enables the gRPC verifier)
//	-o int      auth verification timeout
//	-i string   genai service URL
//	-r int      genai per-attempt timeout
//	-w string   alert webhook URL
//	-x int      alert webhook timeout
//	-k int      low-stock threshold
//	-n int      alert workers
//	-q int      alert queue size
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-u", "-g", "-o", "-i", "-r", "-w", "-x", "-k", "-n", "-q", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AuthServiceURL, "u", config.AuthServiceURL, "auth service URL")
	fs.StringVar(&config.AuthGRPCAddr, "g", config.AuthGRPCAddr, "auth gRPC address")
	authTimeout := fs.Int("o", int(config.AuthTimeout.Seconds()), "auth timeout (in seconds)")
	fs.StringVar(&config.AIServiceURL, "i", config.AIServiceURL, "genai service URL")
	aiTimeout := fs.Int("r", int(config.AITimeout.Seconds()), "genai timeout (in seconds)")
	fs.StringVar(&config.AlertsWebhookURL, "w", config.AlertsWebhookURL, "alert webhook URL")
	webhookTimeout := fs.Int("x", int(config.AlertsWebhookTimeout.Seconds()), "alert webhook timeout (in seconds)")
	fs.IntVar(&config.LowStockThreshold, "k", config.LowStockThreshold, "low-stock threshold")
	fs.IntVar(&config.AlertWorkers, "n", config.AlertWorkers, "alert workers")
	fs.IntVar(&config.AlertQueueSize, "q", config.AlertQueueSize, "alert queue size")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			config.AuthTimeout = time.Duration(*authTimeout) * time.Second
		case "r":
			config.AITimeout = time.Duration(*aiTimeout) * time.Second
		case "x":
			config.AlertsWebhookTimeout = time.Duration(*webhookTimeout) * time.Second
		}
	})
}
