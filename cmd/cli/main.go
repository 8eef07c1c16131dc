package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"contact-service/internal/client"
	"contact-service/internal/ui"
)

type cliOptions struct {
	apiBaseURL string
	tenantID   uint
	timeout    time.Duration
}

func main() {
	opts := parseFlags()

	if strings.TrimSpace(opts.apiBaseURL) == "" {
		fmt.Fprintln(os.Stderr, "api url is required (flag -api-url or env API_BASE_URL)")
		os.Exit(1)
	}

	api := client.NewContactClient(normalizeBaseURL(opts.apiBaseURL))
	api.HTTPClient.Timeout = opts.timeout

	store := ui.NewStore(opts.tenantID)
	app := ui.NewApp(store, api, os.Stdin, os.Stdout)

	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "contactctl: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() cliOptions {
	var opts cliOptions
	var tenantID uint64

	defaultURL := os.Getenv("API_BASE_URL")
	if strings.TrimSpace(defaultURL) == "" {
		defaultURL = "http://localhost:8080/api"
	}

	flag.StringVar(&opts.apiBaseURL, "api-url", defaultURL, "API server base URL (e.g. http://localhost:8080/api)")
	flag.Uint64Var(&tenantID, "tenant", 1, "Initially active tenant")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	flag.Parse()

	opts.tenantID = uint(tenantID)
	return opts
}

func normalizeBaseURL(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}
