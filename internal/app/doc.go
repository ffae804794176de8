// Package app is the composition root of lotwatch.
//
// Run wires the pieces together in this order:
//
//  1. Load ~/.config/lotwatch/config.toml and apply command-line overrides
//  2. Open the JSON log file (the terminal belongs to the UI)
//  3. Build the API client
//  4. Probe /api/vehicles/stats and /api/scraper/status (3 second timeout)
//  5. Start the run-state monitor goroutine
//  6. Load presentation preferences and start the TUI (blocks)
//
// A failed probe is logged and does not stop startup: the header shows the
// outage and recovers by itself once the monitor's polls succeed again.
// Configuration and logger errors are fatal.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()
//	       ├─────> logging.New()
//	       ├─────> api.NewClient()
//	       ├─────> ensureAPIAvailable()
//	       ├─────> monitor.Start()     polls /scraper/status
//	       └─────> ui.Run()            blocks until quit
package app
