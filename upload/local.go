// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// FilesPrefix is the URL path the router serves the upload directory under
const FilesPrefix = "/files/"

// LocalUploader writes images to a directory served by this server.
type LocalUploader struct {
	dir     string
	baseURL string
	maxSize int64
	now     func() time.Time
}

func NewLocalUploader(dir, baseURL string, maxSize int64) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalUploader{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
		now:     time.Now,
	}, nil
}

// Dir is the directory holding uploaded files
func (u *LocalUploader) Dir() string {
	return u.dir
}

// Upload stores the file as <unix-ms>_<uuid><ext>
func (u *LocalUploader) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	ext, err := imageExt(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored := fmt.Sprintf("%d_%s%s", u.now().UnixMilli(), uuid.NewString(), ext)

	tmp, err := os.CreateTemp(u.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(r, u.maxSize+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if n > u.maxSize {
		return "", tooLarge(u.maxSize)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(u.dir, stored)); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	slog.Info("stored upload",
		"name", stored,
		"content_type", contentType,
		"size", humanize.Bytes(uint64(n)),
	)

	return u.baseURL + FilesPrefix + stored, nil
}

// Remove deletes a file previously returned by Upload. Removing a file that
// is already gone is not an error.
func (u *LocalUploader) Remove(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, u.baseURL+FilesPrefix)
	if !ok || name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("not a local upload: %q", url)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(u.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	slog.Info("removed upload", "name", name)
	return nil
}
