package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fragmede/safechain/internal/ui/messages"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	apiURL  = "http://api.test"
	demoURL = "http://demo.test"
)

type fakeProber struct {
	mu   sync.Mutex
	down map[string]bool
}

func (p *fakeProber) Ping(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down[url] {
		return errors.New("unreachable")
	}
	return nil
}

func (p *fakeProber) setDown(url string, down bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.down[url] = down
}

type recorder struct {
	ch chan tea.Msg
}

func (r *recorder) Send(msg tea.Msg) {
	r.ch <- msg
}

func next(t *testing.T, r *recorder) messages.ConnectivityMsg {
	t.Helper()
	select {
	case msg := <-r.ch:
		state, ok := msg.(messages.ConnectivityMsg)
		require.True(t, ok)
		return state
	case <-time.After(2 * time.Second):
		t.Fatal("no connectivity message")
		return messages.ConnectivityMsg{}
	}
}

func TestCheck(t *testing.T) {
	p := &fakeProber{down: map[string]bool{demoURL: true}}
	m := New(p, apiURL, demoURL, time.Hour, time.Second, nil)

	state := m.Check(context.Background())
	assert.Equal(t, messages.ConnectivityMsg{API: true, Demo: false}, state)
}

func TestMonitor_SendsOnlyOnChange(t *testing.T) {
	p := &fakeProber{down: map[string]bool{}}
	r := &recorder{ch: make(chan tea.Msg, 16)}
	m := New(p, apiURL, demoURL, 10*time.Millisecond, time.Second, nil)

	m.Start(r)
	defer m.Stop()

	assert.Equal(t, messages.ConnectivityMsg{API: true, Demo: true}, next(t, r))

	// Several ticks with no change produce nothing.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, r.ch)

	p.setDown(apiURL, true)
	assert.Equal(t, messages.ConnectivityMsg{API: false, Demo: true}, next(t, r))

	p.setDown(apiURL, false)
	assert.Equal(t, messages.ConnectivityMsg{API: true, Demo: true}, next(t, r))
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	p := &fakeProber{down: map[string]bool{}}
	r := &recorder{ch: make(chan tea.Msg, 16)}
	m := New(p, apiURL, demoURL, 10*time.Millisecond, time.Second, nil)

	m.Start(r)
	m.Start(r)
	m.Stop()
	m.Stop()
}

func TestMonitor_StopWithoutStart(t *testing.T) {
	m := New(&fakeProber{down: map[string]bool{}}, apiURL, demoURL, time.Second, time.Second, nil)
	m.Stop()
}
