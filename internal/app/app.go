package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/lotwatch/internal/api"
	"github.com/five82/lotwatch/internal/config"
	"github.com/five82/lotwatch/internal/logging"
	"github.com/five82/lotwatch/internal/monitor"
	"github.com/five82/lotwatch/internal/prefs"
	"github.com/five82/lotwatch/internal/state"
	"github.com/five82/lotwatch/internal/ui"
)

// probeTimeout bounds the startup reachability check.
const probeTimeout = 3 * time.Second

// Options configure the lotwatch application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses ~/.config/lotwatch/prefs.toml
	APIURL     string        // overrides api_url from the config file
	PollEvery  time.Duration // overrides poll_interval; zero keeps the config value
}

// Run boots the dashboard until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(&cfg, opts)

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Path: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	client, err := api.NewClient(api.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	log.Info("lotwatch starting",
		logging.String("api_url", cfg.APIURL),
		logging.Duration("poll_interval", cfg.PollInterval),
		logging.Int("per_page", cfg.PerPage),
	)

	if err := ensureAPIAvailable(ctx, client); err != nil {
		// The dashboard still starts; the header reports the outage until
		// the API comes back.
		log.Warn("api not reachable at startup", logging.Err(err))
	}

	mon := monitor.New(client, &state.Store{}, cfg.PollInterval, log)
	mon.Start(ctx)
	log.Debug("monitor scheduled", logging.Duration("interval", mon.Interval()))

	userPrefs := prefs.Load(opts.PrefsPath)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Monitor:   mon,
		Config:    &cfg,
		Logger:    log,
		ThemeName: userPrefs.Theme,
		Compact:   userPrefs.Compact,
		PrefsPath: opts.PrefsPath,
	})
	log.Info("lotwatch stopped")
	return err
}

func applyOverrides(cfg *config.Config, opts Options) {
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
}

// ensureAPIAvailable checks both endpoints the header depends on.
func ensureAPIAvailable(ctx context.Context, client api.API) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := client.FetchStats(ctx)
		return err
	})
	g.Go(func() error {
		_, err := client.FetchScraperStatus(ctx)
		return err
	})
	return g.Wait()
}
