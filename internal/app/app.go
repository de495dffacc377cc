package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/config"
	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/gateway"
	"github.com/fitdeck/fitdeck/internal/mutation"
	"github.com/fitdeck/fitdeck/internal/prefs"
	"github.com/fitdeck/fitdeck/internal/session"
	"github.com/fitdeck/fitdeck/internal/ui"
)

// Options configure the fitdeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/fitdeck/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the fitdeck TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	gw, err := newGateway(cfg, time.Now)
	if err != nil {
		return err
	}

	store := cache.NewStore(cache.GatewayFetcher{Gateway: gw})
	dispatcher := mutation.NewDispatcher(gw, store)
	tracker := session.NewTracker(dispatcher, session.TickerScheduler{})

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr)
		defer stop()
	}

	loopCtx, cancelLoop := context.WithCancel(ctx)
	done := StartRefetcher(loopCtx, store, interval)
	defer func() {
		cancelLoop()
		<-done
		tracker.Close()
		store.Wait()
		// Signing out discards every cached record.
		store.Reset()
		log.Printf("session closed; cache cleared")
	}()

	role := callerRole(ctx, gw)

	return ui.Run(ui.Options{
		Context:    loopCtx,
		Store:      store,
		Dispatcher: dispatcher,
		Tracker:    tracker,
		Gateway:    gw,
		Role:       role,
		Config:     cfg,
		Prefs:      userPrefs,
		PrefsPath:  opts.PrefsPath,
	})
}

// openLog routes the standard logger to path; the terminal belongs to the UI.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "fitdeck")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func callerRole(ctx context.Context, gw gateway.Gateway) fitness.Role {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	role, err := gw.GetCallerUserRole(ctx)
	if err != nil {
		log.Printf("role lookup failed: %v", err)
		return fitness.RoleGuest
	}
	return role
}
