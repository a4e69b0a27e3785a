package wiki_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dogwitch-wiki/data/internal/config"
	"github.com/dogwitch-wiki/data/internal/wiki"
)

// fakeWiki stands in for Pywikibot: it answers the helper scripts from an
// in-memory set of wiki files.
type fakeWiki struct {
	mu       sync.Mutex
	commands []wiki.Command
	files    map[string]string
	tempDir  string
	output   string // replaces file_exists.py output when set
	failOn   string // script base name that exits non-zero
}

func (f *fakeWiki) Run(_ context.Context, c wiki.Command) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, c)

	if len(c.Args) < 2 || c.Args[0] != "pwb.py" {
		return nil, fmt.Errorf("unexpected command %s", c)
	}
	script := filepath.Base(c.Args[1])
	if script == f.failOn {
		return nil, fmt.Errorf("%s: exit status 1", c)
	}
	switch script {
	case "login.py", "upload.py", wiki.CreatePagesScript:
		return nil, nil
	case wiki.FileExistsScript:
		if f.output != "" {
			return []byte(f.output), nil
		}
		_, ok := f.files[pageName(c.Args[2])]
		return []byte(fmt.Sprintf("%t\n", ok)), nil
	case wiki.DownloadScript:
		name := pageName(c.Args[2])
		if err := os.WriteFile(filepath.Join(f.tempDir, name), []byte(f.files[name]), 0644); err != nil {
			return nil, err
		}
		return []byte("Downloaded file to " + name + "\n"), nil
	}
	return nil, fmt.Errorf("unexpected script %s", script)
}

func (f *fakeWiki) scripts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	for i, c := range f.commands {
		out[i] = filepath.Base(c.Args[1])
		if len(c.Args) > 2 && strings.HasPrefix(c.Args[2], "-page:File:") {
			out[i] += " " + pageName(c.Args[2])
		}
	}
	return out
}

func pageName(arg string) string {
	return strings.TrimPrefix(arg, "-page:File:")
}

func testWikiConfig(t *testing.T) config.WikiConfig {
	t.Helper()
	pwb := t.TempDir()
	scripts := t.TempDir()
	for _, s := range []string{wiki.FileExistsScript, wiki.DownloadScript, wiki.CreatePagesScript} {
		require.NoError(t, os.WriteFile(filepath.Join(scripts, s), []byte("# helper\n"), 0644))
	}
	return config.WikiConfig{
		Python:       "python3",
		PywikibotDir: pwb,
		ScriptsDir:   scripts,
		Description:  config.DefaultUploadDescription,
		TempDir:      t.TempDir(),
	}
}

func newTestBot(t *testing.T, cfg config.WikiConfig, fake *fakeWiki) *wiki.Bot {
	t.Helper()
	fake.tempDir = cfg.TempDir
	bot, err := wiki.NewBot(cfg, zaptest.NewLogger(t), wiki.WithExecutor(fake))
	require.NoError(t, err)
	return bot
}

func imagesDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestUploader_Run(t *testing.T) {
	cfg := testWikiConfig(t)
	fake := &fakeWiki{files: map[string]string{"Same.png": "same", "Old.png": "before"}}
	bot := newTestBot(t, cfg, fake)
	dir := imagesDir(t, map[string]string{"New.png": "new", "Old.png": "after", "Same.png": "same"})

	summary, err := wiki.NewUploader(bot, "desc", zaptest.NewLogger(t)).Run(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wiki.ErrStale), "got %v", err)
	assert.Contains(t, err.Error(), "Old.png")

	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Uploaded)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, []string{"Old.png"}, summary.Stale)

	assert.Equal(t, []string{
		"login.py",
		wiki.FileExistsScript + " New.png",
		"upload.py",
		wiki.FileExistsScript + " Old.png",
		wiki.DownloadScript + " Old.png",
		wiki.FileExistsScript + " Same.png",
		wiki.DownloadScript + " Same.png",
	}, fake.scripts())

	upload := fake.commands[2]
	assert.True(t, upload.Interactive)
	assert.Equal(t, cfg.PywikibotDir, upload.Dir)
	assert.Equal(t, "python3", upload.Binary)
	assert.Equal(t, []string{"pwb.py", "upload.py", filepath.Join(dir, "New.png"), "desc", "-keep", "-noverify"}, upload.Args)
	assert.True(t, fake.commands[0].Interactive)
	assert.False(t, fake.commands[1].Interactive)

	// Downloads are cleaned up.
	assert.NoFileExists(t, filepath.Join(cfg.TempDir, "Old.png"))
	assert.NoFileExists(t, filepath.Join(cfg.TempDir, "Same.png"))
}

func TestUploader_Run_AllUpToDate(t *testing.T) {
	cfg := testWikiConfig(t)
	fake := &fakeWiki{files: map[string]string{"A.png": "a"}}
	dir := imagesDir(t, map[string]string{"A.png": "a"})

	summary, err := wiki.NewUploader(newTestBot(t, cfg, fake), "desc", zaptest.NewLogger(t)).Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, &wiki.UploadSummary{Unchanged: 1}, summary)
}

func TestUploader_Run_UnexpectedOutput(t *testing.T) {
	cfg := testWikiConfig(t)
	fake := &fakeWiki{output: "maybe\n"}
	dir := imagesDir(t, map[string]string{"A.png": "a", "B.png": "b"})

	_, err := wiki.NewUploader(newTestBot(t, cfg, fake), "desc", zaptest.NewLogger(t)).Run(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wiki.ErrUnexpectedOutput), "got %v", err)
	// The run stops at the first command failure.
	assert.Equal(t, []string{"login.py", wiki.FileExistsScript + " A.png"}, fake.scripts())
}

func TestUploader_Run_LoginFailureStops(t *testing.T) {
	cfg := testWikiConfig(t)
	fake := &fakeWiki{failOn: "login.py"}
	dir := imagesDir(t, map[string]string{"A.png": "a"})

	_, err := wiki.NewUploader(newTestBot(t, cfg, fake), "desc", zaptest.NewLogger(t)).Run(context.Background(), dir)
	require.Error(t, err)
	assert.Equal(t, []string{"login.py"}, fake.scripts())
}

func TestUploader_Run_UploadFailure(t *testing.T) {
	cfg := testWikiConfig(t)
	fake := &fakeWiki{failOn: "upload.py"}
	dir := imagesDir(t, map[string]string{"A.png": "a"})

	summary, err := wiki.NewUploader(newTestBot(t, cfg, fake), "desc", zaptest.NewLogger(t)).Run(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A.png")
	assert.Zero(t, summary.Uploaded)
}

func TestUploader_Run_MissingImagesDir(t *testing.T) {
	cfg := testWikiConfig(t)
	fake := &fakeWiki{}
	_, err := wiki.NewUploader(newTestBot(t, cfg, fake), "desc", zaptest.NewLogger(t)).
		Run(context.Background(), filepath.Join(t.TempDir(), "images"))
	require.Error(t, err)
	assert.Empty(t, fake.scripts())
}

func TestUploader_Run_MissingInstall(t *testing.T) {
	cfg := testWikiConfig(t)
	cfg.PywikibotDir = filepath.Join(t.TempDir(), "nope")
	fake := &fakeWiki{}
	_, err := wiki.NewUploader(newTestBot(t, cfg, fake), "desc", zaptest.NewLogger(t)).
		Run(context.Background(), imagesDir(t, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pywikibot")
	assert.Empty(t, fake.scripts())
}
