package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dogwitch-wiki/data/internal/config"
	"github.com/dogwitch-wiki/data/internal/observability"
)

// commandContext lazily loads configuration and the logger shared by all
// subcommands of one invocation.
type commandContext struct {
	configFlag string
	flags      *pflag.FlagSet

	once   sync.Once
	cfg    config.Config
	logger *zap.Logger
	err    error

	flushed bool
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensure() (config.Config, *zap.Logger, error) {
	c.once.Do(func() {
		overrides := make(map[string]any)
		if c.flags != nil {
			for key, name := range map[string]string{
				"logging.level":  "log-level",
				"logging.format": "log-format",
			} {
				if f := c.flags.Lookup(name); f != nil && f.Changed {
					overrides[key] = f.Value.String()
				}
			}
		}
		cfg, err := config.Load(strings.TrimSpace(c.configFlag), overrides)
		if err != nil {
			c.err = err
			return
		}
		logger, err := observability.NewLogger(cfg.Logging)
		if err != nil {
			c.err = fmt.Errorf("initializing logger: %w", err)
			return
		}
		c.cfg = cfg
		c.logger = logger.With(zap.String("run_id", uuid.NewString()))
	})
	return c.cfg, c.logger, c.err
}

func (c *commandContext) close() {
	if c.logger == nil {
		return
	}
	if err := c.logger.Sync(); err != nil && !isSyncNoise(err) {
		log.Printf("flushing logger: %v", err)
	}
	c.flushed = true
}

// isSyncNoise reports errors zap returns when syncing a terminal or pipe,
// which cannot be fsynced.
func isSyncNoise(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}
