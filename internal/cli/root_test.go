package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/safechain/internal/servicetest"
)

type harness struct {
	svc     *servicetest.Server
	dataDir string
	store   string
}

func newHarness(t *testing.T, store string) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	for _, env := range os.Environ() {
		if name, _, ok := strings.Cut(env, "="); ok && strings.HasPrefix(name, "SAFECHAIN_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return &harness{svc: servicetest.New(t), dataDir: t.TempDir(), store: store}
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args,
		"--api-url", h.svc.URL,
		"--demo-url", h.svc.DemoURL(),
		"--data-dir", h.dataDir,
		"--store", h.store,
	))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) status(t *testing.T) SessionStatus {
	t.Helper()
	out, err := h.run(t, "", "status", "--json")
	require.NoError(t, err)
	var s SessionStatus
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	return s
}

func TestRoot_Help(t *testing.T) {
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	for _, sub := range []string{"login", "register", "logout", "status", "check", "history", "demo"} {
		assert.Contains(t, out.String(), sub)
	}
	for _, flag := range []string{"--api-url", "--store", "--data-dir", "--config"} {
		assert.Contains(t, out.String(), flag)
	}
}

func TestLogin_PersistsAcrossInvocations(t *testing.T) {
	for _, store := range []string{"sqlite", "bolt"} {
		t.Run(store, func(t *testing.T) {
			h := newHarness(t, store)
			h.svc.AddUser("a@example.com", "pw1")

			out, err := h.run(t, "pw1\n", "login", "a@example.com", "--password-stdin")
			require.NoError(t, err)
			assert.Contains(t, out, "Logged in as a@example.com")

			s := h.status(t)
			assert.True(t, s.Authenticated)
			assert.Equal(t, "a@example.com", s.Subject)
			assert.NotNil(t, s.ExpiresAt)
			assert.False(t, s.Expired)
			assert.Len(t, s.Fingerprint, 12)
			assert.Equal(t, store, s.Store)
		})
	}
}

func TestLogin_MemoryStoreDoesNotPersist(t *testing.T) {
	h := newHarness(t, "memory")
	h.svc.AddUser("a@example.com", "pw1")

	_, err := h.run(t, "pw1\n", "login", "a@example.com", "--password-stdin")
	require.NoError(t, err)

	assert.False(t, h.status(t).Authenticated)
}

func TestLogin_Rejected(t *testing.T) {
	h := newHarness(t, "sqlite")

	out, err := h.run(t, "nope\n", "login", "a@example.com", "--password-stdin")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Contains(t, out, "Invalid credentials")
	assert.False(t, h.status(t).Authenticated)
}

func TestLogin_FailureKeepsPreviousSession(t *testing.T) {
	h := newHarness(t, "sqlite")
	h.svc.AddUser("a@example.com", "pw1")
	_, err := h.run(t, "pw1\n", "login", "a@example.com", "--password-stdin")
	require.NoError(t, err)
	before := h.status(t).Fingerprint

	_, err = h.run(t, "wrong\n", "login", "a@example.com", "--password-stdin")
	require.Error(t, err)

	after := h.status(t)
	assert.True(t, after.Authenticated)
	assert.Equal(t, before, after.Fingerprint)
}

func TestLogin_NetworkError(t *testing.T) {
	h := newHarness(t, "sqlite")
	dead := httptest.NewServer(nil)
	dead.Close()

	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("pw1\n"))
	cmd.SetArgs([]string{"login", "a@example.com", "--password-stdin",
		"--api-url", dead.URL, "--data-dir", h.dataDir})
	err := cmd.Execute()

	require.Error(t, err)
	assert.Equal(t, "Network error", err.Error())
}

func TestLogin_RequiresEmailWithPasswordStdin(t *testing.T) {
	h := newHarness(t, "sqlite")
	_, err := h.run(t, "pw1\n", "login", "--password-stdin")
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	h := newHarness(t, "sqlite")

	out, err := h.run(t, "pw1\n", "register", "a@example.com", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered a@example.com")
	assert.False(t, h.status(t).Authenticated, "register alone does not sign in")

	_, err = h.run(t, "pw1\n", "register", "a@example.com", "--password-stdin")
	require.Error(t, err)
	assert.Equal(t, "Email already registered", err.Error())
}

func TestRegister_ThenLogin(t *testing.T) {
	h := newHarness(t, "bolt")

	out, err := h.run(t, "pw1\n", "register", "a@example.com", "--password-stdin", "--login")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered a@example.com")
	assert.Contains(t, out, "Logged in as a@example.com")
	assert.True(t, h.status(t).Authenticated)
}

func TestLogout(t *testing.T) {
	h := newHarness(t, "sqlite")
	h.svc.AddUser("a@example.com", "pw1")
	_, err := h.run(t, "pw1\n", "login", "a@example.com", "--password-stdin")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		out, err := h.run(t, "", "logout")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged out")
	}
	assert.False(t, h.status(t).Authenticated)
	assert.Zero(t, h.svc.Requests("POST /api/auth/logout"))
}

func TestStatus_Table(t *testing.T) {
	h := newHarness(t, "sqlite")
	out, err := h.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "signed out")
	assert.Contains(t, out, h.svc.URL)
}

func TestCheck_RecordsHistory(t *testing.T) {
	h := newHarness(t, "sqlite")
	h.svc.AddUser("a@example.com", "pw1")
	_, err := h.run(t, "pw1\n", "login", "a@example.com", "--password-stdin")
	require.NoError(t, err)

	out, err := h.run(t, "hunter2\n", "check", "--password-stdin", "--json")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "weak", res["strength"])
	assert.True(t, strings.HasPrefix(h.svc.LastAuthorization(), "Bearer "))

	out, err = h.run(t, "a much longer passphrase\n", "check", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "strong")

	out, err = h.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "weak")
	assert.Contains(t, out, "strong")
	assert.Contains(t, out, "a@example.com")
	assert.NotContains(t, out, "hunter2")

	out, err = h.run(t, "", "history", "--json", "--limit", "1")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "strong", entries[0]["strength"])

	db, err := os.ReadFile(filepath.Join(h.dataDir, "safechain.db"))
	require.NoError(t, err)
	assert.NotContains(t, string(db), "hunter2")
}

func TestCheck_Unauthenticated(t *testing.T) {
	h := newHarness(t, "sqlite")
	_, err := h.run(t, "hunter2\n", "check", "--password-stdin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not authenticated")
}

func TestHistory_Empty(t *testing.T) {
	h := newHarness(t, "memory")
	out, err := h.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No checks yet")
}

func TestDemo(t *testing.T) {
	h := newHarness(t, "memory")
	out, err := h.run(t, "", "demo")
	require.NoError(t, err)
	assert.Equal(t, servicetest.DemoMessage+"\n", out)
}

func TestLogFileWritten(t *testing.T) {
	h := newHarness(t, "sqlite")
	h.svc.AddUser("a@example.com", "pw1")
	_, err := h.run(t, "pw1\n", "login", "a@example.com", "--password-stdin", "--log-level", "debug")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(h.dataDir, "debug.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "logged in")
	assert.NotContains(t, string(data), "pw1")
}

func TestInvalidStoreRejected(t *testing.T) {
	h := newHarness(t, "redis")
	_, err := h.run(t, "", "status")
	require.Error(t, err)
}
