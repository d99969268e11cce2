package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/nabsearch/internal/config"
	"github.com/five82/nabsearch/internal/logging"
	"github.com/five82/nabsearch/internal/newznab"
	"github.com/five82/nabsearch/internal/prefs"
	"github.com/five82/nabsearch/internal/session"
	"github.com/five82/nabsearch/internal/ui"
)

// Options configure a nabsearch run. Empty fields keep the config file values.
type Options struct {
	ConfigPath string
	PrefsPath  string
	LogFile    string
	LogLevel   string
	Limit      int // results per search; zero keeps result_limit
	Version    string
}

// Env holds the components shared by the TUI and the CLI subcommands.
type Env struct {
	Config  config.Config
	Client  *newznab.Client
	Prefs   prefs.File
	Session *session.Session

	logs io.Closer
}

// Bootstrap loads configuration, starts logging and wires the indexer client
// and search session. Callers must Close the returned Env.
func Bootstrap(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logs, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := newznab.NewClient(cfg.Host,
		newznab.WithTimeout(cfg.Timeout),
		newznab.WithRateLimit(cfg.RequestsPerSecond),
		newznab.WithUserAgent(cfg.UserAgent),
	)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("init indexer client: %w", err)
	}

	store := prefs.File{Path: cfg.PrefsFile}
	env := &Env{
		Config:  cfg,
		Client:  client,
		Prefs:   store,
		Session: session.New(client, store, session.WithResultLimit(cfg.ResultLimit)),
		logs:    logs,
	}

	logrus.WithFields(logrus.Fields{
		"endpoint": client.Endpoint(),
		"config":   cfg.Path,
		"version":  opts.Version,
	}).Info("nabsearch started")
	return env, nil
}

// Close releases the HTTP client and the log file.
func (e *Env) Close() error {
	if e == nil {
		return nil
	}
	return errors.Join(e.Client.Close(), e.logs.Close())
}

// Run boots the nabsearch TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	return ui.Run(ui.Options{
		Context: ctx,
		Session: env.Session,
		About: ui.About{
			Host:        env.Client.Endpoint(),
			ConfigPath:  env.Config.Path,
			PrefsPath:   env.Config.PrefsFile,
			LogFile:     env.Config.LogFile,
			Version:     opts.Version,
			ResultLimit: env.Config.ResultLimit,
		},
	})
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if v := strings.TrimSpace(opts.PrefsPath); v != "" {
		cfg.PrefsFile = v
	}
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		path, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		cfg.LogFile = path
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if opts.Limit > 0 {
		cfg.ResultLimit = opts.Limit
	}
	return nil
}
