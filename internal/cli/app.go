package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ppiankov/feedmerge/internal/config"
	"github.com/ppiankov/feedmerge/internal/engine"
	"github.com/ppiankov/feedmerge/internal/logging"
	"github.com/ppiankov/feedmerge/internal/privacy"
	"github.com/ppiankov/feedmerge/internal/render"
	"github.com/ppiankov/feedmerge/internal/source"
	"github.com/ppiankov/feedmerge/internal/store"
	"github.com/ppiankov/feedmerge/internal/transport"
)

// app is the wiring shared by the fetching commands.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	reg      *source.Registry
	engine   *engine.Engine
	store    *store.Store // nil when the fetch log is disabled
	renderer render.Renderer
}

// loadConfig reads config.yaml from --config-dir, falling back to defaults
// when the file does not exist, and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	cfg, err := config.Load(configDir)
	found := true
	if errors.Is(err, fs.ErrNotExist) {
		cfg, found, err = config.Default(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if flags.Changed("no-color") && noColor {
		cfg.Output.Color = false
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	return cfg, found, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, found, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	if !found {
		logger.WithField("dir", configDir).Debug("no config file, using defaults")
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(cfg.Output.Format, cfg.Output.Color && colorAllowed(), nil)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: logger, reg: reg, renderer: renderer}

	opts := engine.Options{
		RelayURL:    cfg.Relay.URL,
		Policy:      policyFor(cfg.Aggregate.OnFailure),
		Logger:      logger,
		Concurrency: cfg.Aggregate.Concurrency,
	}

	if cfg.Storage.Path != "" {
		st, err := store.Open(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = st

		redact, err := privacy.New(cfg.Storage.Redact)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		opts.Recorder = runRecorder{st: st, redact: redact}

		if n, err := st.PruneOld(cmdContext(cmd), cfg.Storage.RetainDays); err != nil {
			logger.WithError(err).Warn("prune fetch log")
		} else if n > 0 {
			logger.WithField("runs", n).Debug("pruned fetch log")
		}
	}

	client := transport.New(transport.Options{
		Timeout:   cfg.HTTP.Timeout.Duration,
		UserAgent: cfg.HTTP.UserAgent,
		RateLimit: cfg.HTTP.RateLimit,
	})
	a.engine = engine.New(reg, client, opts)

	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func policyFor(onFailure string) engine.Policy {
	if onFailure == config.OnFailureAbort {
		return engine.PolicyAbortOnFailure
	}
	return engine.PolicySkipFailed
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// colorAllowed honours the NO_COLOR convention.
func colorAllowed() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return !set
}
