// Package monitor polls the SafeChain API and demo services and tells the
// TUI when their reachability changes.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/fragmede/safechain/internal/logging"
	"github.com/fragmede/safechain/internal/ui/messages"
)

// Prober checks whether a URL answers.
type Prober interface {
	Ping(ctx context.Context, url string) error
}

// Notifier receives connectivity changes. *tea.Program satisfies it.
type Notifier interface {
	Send(msg tea.Msg)
}

// Monitor polls service reachability in the background.
type Monitor struct {
	prober   Prober
	apiURL   string
	demoURL  string
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	last    *messages.ConnectivityMsg
	stopCh  chan struct{}
	done    chan struct{}
	started bool
}

// New creates a monitor probing apiURL and demoURL every interval. Each probe
// is bounded by timeout.
func New(prober Prober, apiURL, demoURL string, interval, timeout time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Monitor{
		prober:   prober,
		apiURL:   apiURL,
		demoURL:  demoURL,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "monitor"),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start probes once immediately and then on every tick until Stop.
func (m *Monitor) Start(n Notifier) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	go m.loop(n)
}

// Stop halts polling and waits for the polling goroutine to exit. It is safe
// to call more than once, or without Start.
func (m *Monitor) Stop() {
	m.mu.Lock()
	started := m.started
	select {
	case <-m.stopCh:
	default:
		close(m.stopCh)
	}
	m.mu.Unlock()

	if started {
		<-m.done
	}
}

func (m *Monitor) loop(n Notifier) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.poll(n)
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.poll(n)
		}
	}
}

func (m *Monitor) poll(n Notifier) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	go func() {
		select {
		case <-m.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	state := m.Check(ctx)

	select {
	case <-m.stopCh:
		return
	default:
	}

	if m.changed(state) {
		m.logger.Info("connectivity changed", "api", state.API, "demo", state.Demo)
		n.Send(state)
	}
}

// Check probes both services concurrently.
func (m *Monitor) Check(ctx context.Context) messages.ConnectivityMsg {
	var state messages.ConnectivityMsg
	var g errgroup.Group

	g.Go(func() error {
		err := m.prober.Ping(ctx, m.apiURL)
		state.API = err == nil
		if err != nil {
			m.logger.Debug("api unreachable", "url", m.apiURL, "error", err)
		}
		return nil
	})
	g.Go(func() error {
		err := m.prober.Ping(ctx, m.demoURL)
		state.Demo = err == nil
		if err != nil {
			m.logger.Debug("demo unreachable", "url", m.demoURL, "error", err)
		}
		return nil
	})
	_ = g.Wait()

	return state
}

func (m *Monitor) changed(state messages.ConnectivityMsg) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last != nil && *m.last == state {
		return false
	}
	m.last = &state
	return true
}
