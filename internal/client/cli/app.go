// Package cli is the interactive terminal client for Second Brain.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/client/client"
	"github.com/dmitrijs2005/secondbrain/internal/client/config"
	"github.com/dmitrijs2005/secondbrain/internal/client/store"
	"github.com/dmitrijs2005/secondbrain/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	api    client.Client
	state  *store.App
	http   *http.Client
	logger logging.Logger

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.RWMutex
	Mode   Mode
}

func NewApp(c *config.Config) (*App, error) {
	if c.StateDir == "" {
		return nil, fmt.Errorf("state directory is not set")
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	tokens := store.NewFileTokenStore(c.StateDir)

	return newApp(c, api, tokens, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, tokens store.TokenStore, l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api,
		state:  store.NewApp(api, tokens, l),
		http:   &http.Client{Timeout: c.RequestTimeout},
		logger: l,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.Mode
}

// Run restores a saved session, starts the connectivity watcher and serves
// the REPL until EOF or "exit".
func (a *App) Run(ctx context.Context) error {
	if err := a.state.Init(ctx); err != nil {
		return err
	}
	defer a.state.Dispose()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	fmt.Fprintln(a.out, "Welcome to Second Brain CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.state.Session.IsAuthenticated()
}

func (a *App) getStatus() string {
	parts := make([]string, 0, 2)
	if _, name := a.state.Session.User(); name != "" {
		parts = append(parts, name)
	}
	if m := a.mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher probes the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
