package images

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// copyFileVerified copies the sprite image at src to dst, then reads dst back
// and compares its length and SHA-256 digest with what was read from src.
// A dst that does not match is removed.
func copyFileVerified(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer in.Close()

	want := sha256.New()
	wantSize, err := writeImage(dst, io.TeeReader(in, want))
	if err != nil {
		_ = os.Remove(dst)
		return err
	}

	got, gotSize, err := digest(dst)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if gotSize != wantSize || !bytes.Equal(got, want.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("image %s does not match %s after copy (%d of %d bytes)", dst, src, gotSize, wantSize)
	}
	return nil
}

func writeImage(dst string, r io.Reader) (int64, error) {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("creating image: %w", err)
	}
	n, err := io.Copy(out, r)
	if err != nil {
		_ = out.Close()
		return n, fmt.Errorf("writing image %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("closing image %s: %w", dst, err)
	}
	return n, nil
}

func digest(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reopening image: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, n, fmt.Errorf("reading back image %s: %w", path, err)
	}
	return h.Sum(nil), n, nil
}
