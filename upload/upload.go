// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Uploader stores one image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// Remover is implemented by uploaders that can delete an image they stored.
type Remover interface {
	Remove(ctx context.Context, url string) error
}

// ProviderError is a failure reported by a remote image host.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s upload failed: %s", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s upload failed: %s (%s)", e.Provider, e.Message, e.Code)
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
	".heic": true,
}

// imageExt returns the lowercased extension of name if it is an image type
func imageExt(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !imageExts[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return ext, nil
}

// readLimited reads all of r, failing once more than max bytes arrive
func readLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > max {
		return nil, tooLarge(max)
	}
	return data, nil
}

func tooLarge(max int64) error {
	return fmt.Errorf("%w: limit is %s", ErrTooLarge, humanize.Bytes(uint64(max)))
}
