package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBootstrap_WiresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api" || r.URL.Query().Get("t") != "caps" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"caps":{"categories":{"category":[{"id":"2000","name":"Movies","subcat":[{"id":"2030","name":"SD"},{"id":"2040","name":"HD"}]}]}}}`))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "nabsearch.log")
	cfgPath := writeConfig(t, dir, `
host = "`+server.URL+`"
timeout = "5s"
result_limit = 50
log_file = "`+logFile+`"
prefs_file = "`+filepath.Join(dir, "prefs.toml")+`"
`)

	env, err := Bootstrap(Options{ConfigPath: cfgPath, Version: "test"})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}

	if got, want := env.Client.Endpoint(), server.URL+"/api"; got != want {
		t.Fatalf("Endpoint = %q, want %q", got, want)
	}
	if env.Config.ResultLimit != 50 {
		t.Fatalf("ResultLimit = %d, want 50", env.Config.ResultLimit)
	}

	cats, err := env.Session.FetchCategories(context.Background())
	if err != nil {
		t.Fatalf("FetchCategories returned error: %v", err)
	}
	if len(cats) != 2 || cats[1].Name != "Movies > HD" {
		t.Fatalf("categories = %#v", cats)
	}

	if err := env.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "nabsearch started") {
		t.Fatalf("log file missing startup entry:\n%s", data)
	}
}

func TestBootstrap_Overrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `
host = "indexer.example"
log_file = "`+filepath.Join(dir, "config.log")+`"
`)
	prefsPath := filepath.Join(dir, "custom-prefs.toml")
	logPath := filepath.Join(dir, "flag.log")

	env, err := Bootstrap(Options{
		ConfigPath: cfgPath,
		PrefsPath:  prefsPath,
		LogFile:    logPath,
		LogLevel:   " DEBUG ",
		Limit:      25,
	})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	t.Cleanup(func() { _ = env.Close() })

	if env.Prefs.Path != prefsPath {
		t.Fatalf("prefs path = %q, want %q", env.Prefs.Path, prefsPath)
	}
	if env.Config.LogFile != logPath || env.Config.LogLevel != "debug" {
		t.Fatalf("log settings = %q %q", env.Config.LogFile, env.Config.LogLevel)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if env.Config.ResultLimit != 25 {
		t.Fatalf("ResultLimit = %d, want 25", env.Config.ResultLimit)
	}
	if got := env.Client.Endpoint(); got != "http://indexer.example/api" {
		t.Fatalf("Endpoint = %q", got)
	}
}

func TestBootstrap_LogFileOverrideExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `host = "indexer.example"`)

	env, err := Bootstrap(Options{
		ConfigPath: cfgPath,
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		LogFile:    "~/logs/nabsearch.log",
	})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	t.Cleanup(func() { _ = env.Close() })

	want := filepath.Join(home, "logs", "nabsearch.log")
	if env.Config.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", env.Config.LogFile, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("log file not created under home: %v", err)
	}
}

func TestBootstrap_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing host", `log_file = ""`, "host"},
		{"invalid toml", `host = [`, "load config"},
		{"negative timeout", "host = \"x\"\ntimeout = \"-1s\"", "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := writeConfig(t, t.TempDir(), tt.body)
			env, err := Bootstrap(Options{ConfigPath: cfgPath})
			if err == nil {
				_ = env.Close()
				t.Fatalf("Bootstrap returned nil error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestEnvClose_Nil(t *testing.T) {
	var env *Env
	if err := env.Close(); err != nil {
		t.Fatalf("Close on nil Env = %v", err)
	}
}
