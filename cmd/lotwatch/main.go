package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/lotwatch/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/lotwatch/config.toml)")
	apiURL := flag.String("api", "", "listing API base URL (optional, overrides api_url)")
	pollSeconds := flag.Int("poll", 0, "scraper status refresh interval in seconds (optional, defaults to 5s)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, APIURL: *apiURL}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = time.Duration(poll) * time.Second
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "lotwatch: %v\n", err)
		return 1
	}
	return 0
}
