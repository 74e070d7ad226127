package model

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// fetch downloads opt into destDir, reporting fractional progress when the
// server advertises a length. The file lands under a temp name and is
// renamed into place only after a complete download, so a partial fetch
// never looks like a cache hit.
func fetch(ctx context.Context, opt Option, destDir string, progress func(float64)) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	// Temp file in the destination directory: same filesystem for the rename.
	tmpFile, err := os.CreateTemp(destDir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // no-op after successful rename

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opt.URL, nil)
	if err != nil {
		tmpFile.Close()
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("download %s: %w", opt.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		tmpFile.Close()
		return fmt.Errorf("download %s: %s", opt.ID, resp.Status)
	}

	var written int64
	buf := make([]byte, 128*1024)
	for {
		if err := ctx.Err(); err != nil {
			tmpFile.Close()
			return err
		}
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := tmpFile.Write(buf[:n]); err != nil {
				tmpFile.Close()
				return fmt.Errorf("write model file: %w", err)
			}
			written += int64(n)
			if progress != nil && resp.ContentLength > 0 {
				progress(float64(written) / float64(resp.ContentLength))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			tmpFile.Close()
			return fmt.Errorf("download %s: %w", opt.ID, readErr)
		}
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return fmt.Errorf("download %s: truncated at %d of %d bytes", opt.ID, written, resp.ContentLength)
	}
	return os.Rename(tmpPath, filepath.Join(destDir, opt.FileName))
}
