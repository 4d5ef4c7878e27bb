package cmd

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/tesh254/turncopy/internal/api"
	"github.com/tesh254/turncopy/internal/clipboard"
	"github.com/tesh254/turncopy/internal/config"
	"github.com/tesh254/turncopy/internal/extract"
	"github.com/tesh254/turncopy/internal/source"
	"github.com/tesh254/turncopy/internal/storage"
)

// diagnostics is where banners go: stderr when verbose, nowhere otherwise.
func diagnostics(cfg *config.Config) io.Writer {
	if cfg.Verbose {
		return os.Stderr
	}
	return nil
}

func loadConfig() *config.Config {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// newAPI opens the history database and wires the API. The returned func
// closes the database.
func newAPI(cfg *config.Config) (*api.API, func()) {
	st, err := storage.NewStorage(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	a := api.NewAPI(st, extract.New(cfg.Selectors), clipboard.NewSystem(), cfg.Logger())
	return a, func() { st.Close() }
}

func newLoader(cfg *config.Config, render bool) *source.Loader {
	sc := source.DefaultConfig()
	sc.UserAgent = cfg.Fetch.UserAgent
	sc.Timeout = cfg.Fetch.Timeout
	sc.RequestDelay = cfg.Fetch.RequestDelay
	sc.Render = render
	if render {
		// chat turns appear after the page's scripts have run
		sc.WaitSelector = cfg.Selectors.Message
	}
	return source.New(sc)
}

func loadPage(ctx context.Context, cfg *config.Config, location string, render bool) *source.Page {
	page, err := newLoader(cfg, render).Load(ctx, location)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", location, err)
	}
	return page
}
