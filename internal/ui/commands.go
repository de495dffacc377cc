package ui

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitdeck/fitdeck/internal/cache"
	"github.com/fitdeck/fitdeck/internal/export"
	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/logtail"
	"github.com/fitdeck/fitdeck/internal/mutation"
)

// Messages

type tickMsg time.Time

type storeChangedMsg struct{}

type mutationMsg struct {
	kind    mutation.Kind
	result  mutation.Result
	err     error
	success string
	failure string
}

type trackerMsg struct {
	started  bool
	activity fitness.Activity
	err      error
}

type exportMsg struct {
	path string
	err  error
}

type photoMsg struct {
	path string
	err  error
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// watchStore subscribes to every collection and returns a channel that
// signals, coalesced, whenever the store changed.
func watchStore(store *cache.Store) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	cancel := store.Subscribe(func(cache.Event) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	return ch, cancel
}

func waitForStore(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			return storeChangedMsg{}
		}
	}
}

func (m Model) dispatch(mut mutation.Mutation, success, failure string) tea.Cmd {
	ctx, d := m.ctx, m.dispatcher
	return func() tea.Msg {
		res, err := d.Dispatch(ctx, mut)
		return mutationMsg{kind: mut.Kind(), result: res, err: err, success: success, failure: failure}
	}
}

func (m Model) startActivity(t fitness.ActivityType) tea.Cmd {
	ctx, tracker := m.ctx, m.tracker
	return func() tea.Msg {
		return trackerMsg{started: true, err: tracker.Start(ctx, t)}
	}
}

func (m Model) stopActivity() tea.Cmd {
	ctx, tracker := m.ctx, m.tracker
	return func() tea.Msg {
		a, err := tracker.Stop(ctx)
		return trackerMsg{activity: a, err: err}
	}
}

func (m Model) exportData() tea.Cmd {
	ctx, gw, dir, now := m.ctx, m.gateway, m.config.ExportDir, m.now
	return func() tea.Msg {
		data, err := gw.ExportUserData(ctx)
		if err != nil {
			return exportMsg{err: err}
		}
		path, err := export.Write(dir, data, now())
		return exportMsg{path: path, err: err}
	}
}

// photoFetcher is implemented by gateways that can download photo blobs.
type photoFetcher interface {
	FetchPhoto(ctx context.Context, photo fitness.Photo) ([]byte, error)
}

func (m Model) savePhoto(meal fitness.Meal) tea.Cmd {
	ctx, dir := m.ctx, m.config.ExportDir
	fetcher, ok := m.gateway.(photoFetcher)
	return func() tea.Msg {
		if !ok || meal.Photo.URL == "" {
			return photoMsg{err: fmt.Errorf("meal %s has no downloadable photo", meal.ID)}
		}
		data, err := fetcher.FetchPhoto(ctx, meal.Photo)
		if err != nil {
			return photoMsg{err: err}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return photoMsg{err: fmt.Errorf("create photo dir: %w", err)}
		}
		path := filepath.Join(dir, "fitdeck-meal-"+meal.ID+".jpg")
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return photoMsg{err: fmt.Errorf("write photo: %w", err)}
		}
		log.Printf("meal %s photo saved to %s", meal.ID, path)
		return photoMsg{path: path}
	}
}

func loadLogs(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogBufferLimit)
		if err != nil {
			return logsMsg{err: err}
		}
		return logsMsg{entries: logtail.ParseAll(lines)}
	}
}
