// Package wiki drives Pywikibot as an external process to publish extracted
// data on the wiki.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dogwitch-wiki/data/internal/config"
)

// Script names resolved against the configured scripts directory, plus the
// stock Pywikibot scripts run from the Pywikibot checkout.
const (
	FileExistsScript  = "file_exists.py"
	DownloadScript    = "download_file.py"
	CreatePagesScript = "create_equipment_pages.py"

	pwbEntryPoint = "pwb.py"
	loginScript   = "login.py"
	uploadScript  = "upload.py"
)

// ErrUnexpectedOutput is returned when a helper script prints something the
// bot cannot interpret.
var ErrUnexpectedOutput = errors.New("unexpected script output")

// Option configures the Bot.
type Option func(*Bot)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(b *Bot) {
		if exec != nil {
			b.exec = exec
		}
	}
}

// Bot wraps the Pywikibot command line.
type Bot struct {
	cfg    config.WikiConfig
	exec   Executor
	logger *zap.Logger
}

// NewBot constructs a Bot from cfg. Relative script and checkout paths are
// made absolute so that commands run with the checkout as working directory
// still find them.
//
// Precondition: logger must be non-nil.
// Postcondition: returns a Bot or a non-nil error when a required setting is empty.
func NewBot(cfg config.WikiConfig, logger *zap.Logger, opts ...Option) (*Bot, error) {
	if strings.TrimSpace(cfg.Python) == "" {
		return nil, errors.New("wiki.python must not be empty")
	}
	if strings.TrimSpace(cfg.PywikibotDir) == "" {
		return nil, errors.New("wiki.pywikibot_dir must not be empty")
	}
	for _, p := range []*string{&cfg.PywikibotDir, &cfg.ScriptsDir} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", *p, err)
		}
		*p = abs
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	b := &Bot{cfg: cfg, exec: commandExecutor{}, logger: logger}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// CheckInstall verifies the Pywikibot checkout and the helper scripts exist.
func (b *Bot) CheckInstall() error {
	info, err := os.Stat(b.cfg.PywikibotDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("failed to find the pywikibot directory at %s", b.cfg.PywikibotDir)
	}
	for _, name := range []string{FileExistsScript, DownloadScript} {
		p := b.script(name)
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			return fmt.Errorf("failed to find a script at %s", p)
		}
	}
	return nil
}

// Login signs the bot in. Without it, uploads fail with a user-rights error.
func (b *Bot) Login(ctx context.Context) error {
	_, err := b.pwb(ctx, true, loginScript)
	return err
}

// FileExists reports whether File:<name> exists on the wiki.
//
// Postcondition: returns the answer, or ErrUnexpectedOutput when the helper
// prints anything but "true" or "false".
func (b *Bot) FileExists(ctx context.Context, name string) (bool, error) {
	out, err := b.pwb(ctx, false, b.script(FileExistsScript), filePageArg(name))
	if err != nil {
		return false, err
	}
	switch s := strings.TrimSpace(string(out)); s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%s for %q: %w: %q", FileExistsScript, name, ErrUnexpectedOutput, s)
	}
}

// Download fetches the media behind File:<name> into the temp directory and
// returns the local path.
func (b *Bot) Download(ctx context.Context, name string) (string, error) {
	out, err := b.pwb(ctx, false, b.script(DownloadScript), filePageArg(name))
	if err != nil {
		return "", err
	}
	b.logger.Debug("download output", zap.String("name", name), zap.ByteString("output", out))

	path := filepath.Join(b.cfg.TempDir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", fmt.Errorf("failed to find the downloaded file at %s", path)
	}
	return path, nil
}

// Upload publishes the file at path under its own name, without asking for
// confirmation.
func (b *Bot) Upload(ctx context.Context, path, description string) error {
	_, err := b.pwb(ctx, true, uploadScript, path, description, "-keep", "-noverify")
	return err
}

// CreatePages creates a stub page for every record in the JSON file at
// jsonPath. Unless always is set, the script asks before each page.
func (b *Bot) CreatePages(ctx context.Context, jsonPath string, always bool) error {
	abs, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", jsonPath, err)
	}
	args := []string{b.script(CreatePagesScript)}
	if always {
		args = append(args, "-always")
	}
	args = append(args, abs)
	_, err = b.pwb(ctx, true, args...)
	return err
}

func (b *Bot) script(name string) string {
	return filepath.Join(b.cfg.ScriptsDir, name)
}

func (b *Bot) pwb(ctx context.Context, interactive bool, args ...string) ([]byte, error) {
	cmd := Command{
		Dir:         b.cfg.PywikibotDir,
		Binary:      b.cfg.Python,
		Args:        append([]string{pwbEntryPoint}, args...),
		Interactive: interactive,
	}
	b.logger.Debug("running pywikibot", zap.Stringer("command", cmd))
	return b.exec.Run(ctx, cmd)
}

func filePageArg(name string) string {
	return "-page:File:" + name
}
