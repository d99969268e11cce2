package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newIndexer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("t") {
		case "caps":
			_, _ = w.Write([]byte(`{"caps":{"categories":{"category":[
				{"id":"2000","name":"Movies","subcat":{"id":"2040","name":"HD"}},
				{"id":"4000","name":"PC","subcat":[{"id":"4010","name":"0day"},{"id":"4020","name":"ISO"}]}
			]}}}`))
		case "search":
			if q.Get("apikey") != "good" {
				_, _ = w.Write([]byte(`{"error":{"code":"100","description":"Incorrect user credentials"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"rss":{"channel":{"item":{
				"title":"Ubuntu 24.04",
				"category":"PC > ISO",
				"pubDate":"Mon, 02 Jan 2006 15:04:05 +0000",
				"enclosure":{"url":"http://x/nzb","length":"1536","type":"application/x-nzb"}
			}}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

type cliEnv struct {
	configPath string
	prefsPath  string
}

func newCLIEnv(t *testing.T, host string) cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := cliEnv{
		configPath: filepath.Join(dir, "config.toml"),
		prefsPath:  filepath.Join(dir, "prefs.toml"),
	}
	body := "host = \"" + host + "\"\nlog_file = \"" + filepath.Join(dir, "nabsearch.log") + "\"\n"
	if err := os.WriteFile(env.configPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e cliEnv) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--prefs", e.prefsPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCategoriesCommand(t *testing.T) {
	server := newIndexer(t)
	env := newCLIEnv(t, server.URL)

	out, err := env.execute(t, "categories")
	if err != nil {
		t.Fatalf("categories returned error: %v", err)
	}
	for _, want := range []string{"2040", "Movies > HD", "PC > 0day", "PC > ISO"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchCommand_RemembersKey(t *testing.T) {
	server := newIndexer(t)
	env := newCLIEnv(t, server.URL)

	out, err := env.execute(t, "search", "--cat", "4020", "--apikey", "good", "--remember", "ubuntu")
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	for _, want := range []string{"Ubuntu 24.04", "1.5 kB", "1 results"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(env.prefsPath)
	if err != nil {
		t.Fatalf("read prefs: %v", err)
	}
	if !strings.Contains(string(data), "good") {
		t.Fatalf("prefs missing remembered key:\n%s", data)
	}

	// The remembered key and flag are used when --apikey is omitted.
	if _, err := env.execute(t, "search", "--cat", "4010,4020", "ubuntu"); err != nil {
		t.Fatalf("search with remembered key returned error: %v", err)
	}
	data, _ = os.ReadFile(env.prefsPath)
	if !strings.Contains(string(data), "good") {
		t.Fatalf("remembered key was dropped:\n%s", data)
	}
}

func TestSearchCommand_Errors(t *testing.T) {
	server := newIndexer(t)
	env := newCLIEnv(t, server.URL)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"auth", []string{"search", "--cat", "2040", "--apikey", "bad", "x"}, "Incorrect user credentials"},
		{"no key", []string{"search", "--cat", "2040", "x"}, "api key is required"},
		{"no categories", []string{"search", "--apikey", "good", "x"}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.execute(t, tt.args...)
			if err == nil {
				t.Fatalf("search returned nil error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	env := newCLIEnv(t, "indexer.invalid")
	if _, err := env.execute(t, "unexpected"); err == nil {
		t.Fatalf("root command accepted a positional argument")
	}
}
