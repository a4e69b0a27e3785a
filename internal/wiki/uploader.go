package wiki

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrStale is returned for an image whose wiki copy differs from the local file.
var ErrStale = errors.New("wiki copy is outdated")

// UploadSummary counts what an upload run did.
type UploadSummary struct {
	Uploaded  int
	Unchanged int
	Stale     []string
}

// Uploader publishes a directory of images through a Bot.
type Uploader struct {
	bot         *Bot
	description string
	logger      *zap.Logger
}

// NewUploader returns an Uploader attaching description to every new upload.
//
// Precondition: bot and logger must be non-nil.
func NewUploader(bot *Bot, description string, logger *zap.Logger) *Uploader {
	return &Uploader{bot: bot, description: description, logger: logger}
}

// Run uploads every file in imagesDir that is missing from the wiki. Files
// already on the wiki are downloaded and compared by SHA-1; a mismatch is
// recorded as stale and does not stop the run.
//
// Precondition: imagesDir must exist.
// Postcondition: returns a summary; the error is non-nil if a command failed
// (the run stops there) or if any file was stale (reported after all files).
func (u *Uploader) Run(ctx context.Context, imagesDir string) (*UploadSummary, error) {
	if err := u.bot.CheckInstall(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return nil, fmt.Errorf("reading images directory %s: %w", imagesDir, err)
	}

	if err := u.bot.Login(ctx); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	summary := &UploadSummary{}
	var stale error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		name := e.Name()
		localPath := filepath.Join(imagesDir, name)

		exists, err := u.bot.FileExists(ctx, name)
		if err != nil {
			return summary, err
		}
		if !exists {
			if err := u.bot.Upload(ctx, localPath, u.description); err != nil {
				return summary, fmt.Errorf("uploading %s: %w", name, err)
			}
			summary.Uploaded++
			u.logger.Info("uploaded image", zap.String("name", name))
			continue
		}

		same, wikiHash, localHash, err := u.compare(ctx, name, localPath)
		if err != nil {
			return summary, err
		}
		if !same {
			summary.Stale = append(summary.Stale, name)
			stale = multierr.Append(stale, fmt.Errorf("%q: %w (wiki: %s, local: %s)", name, ErrStale, wikiHash, localHash))
			u.logger.Warn("image is outdated on the wiki",
				zap.String("name", name),
				zap.String("wiki_sha1", wikiHash),
				zap.String("local_sha1", localHash),
			)
			continue
		}
		summary.Unchanged++
		u.logger.Debug("image is up to date", zap.String("name", name))
	}
	return summary, stale
}

func (u *Uploader) compare(ctx context.Context, name, localPath string) (bool, string, string, error) {
	downloaded, err := u.bot.Download(ctx, name)
	if err != nil {
		return false, "", "", fmt.Errorf("downloading %s: %w", name, err)
	}
	defer func() {
		if err := os.Remove(downloaded); err != nil {
			u.logger.Debug("removing downloaded file", zap.String("path", downloaded), zap.Error(err))
		}
	}()

	wikiHash, err := fileSHA1(downloaded)
	if err != nil {
		return false, "", "", err
	}
	localHash, err := fileSHA1(localPath)
	if err != nil {
		return false, "", "", err
	}
	return wikiHash == localHash, wikiHash, localHash, nil
}

// fileSHA1 returns the hex SHA-1 digest of the file at path. MediaWiki
// reports file hashes as SHA-1, so the same digest is used here.
func fileSHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
