// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"
)

// SMMSEndpoint is the SM.MS v2 upload API
const SMMSEndpoint = "https://sm.ms/api/v2/upload"

// SMMSUploader sends images to the SM.MS image host.
type SMMSUploader struct {
	Endpoint string
	Client   *http.Client

	token   string
	maxSize int64
}

func NewSMMSUploader(token string, maxSize int64) *SMMSUploader {
	return &SMMSUploader{
		Endpoint: SMMSEndpoint,
		Client:   &http.Client{Timeout: 60 * time.Second},
		token:    token,
		maxSize:  maxSize,
	}
}

type smmsResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		URL  string `json:"url"`
		Hash string `json:"hash"`
	} `json:"data"`
	// Set when the image was uploaded before
	Images string `json:"images"`
}

func (u *SMMSUploader) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if _, err := imageExt(name); err != nil {
		return "", err
	}

	data, err := readLimited(r, u.maxSize)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("smfile", filepath.Base(name))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", u.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("smms request failed: %w", err)
	}
	defer resp.Body.Close()

	var result smmsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ProviderError{
			Provider: "smms",
			Code:     fmt.Sprintf("http_%d", resp.StatusCode),
			Message:  "unreadable response",
		}
	}

	if result.Success && result.Data != nil && result.Data.URL != "" {
		return result.Data.URL, nil
	}

	// SM.MS rejects re-uploads but reports where the original lives
	if result.Code == "image_repeated" && result.Images != "" {
		slog.Info("smms image already uploaded", "name", name, "url", result.Images)
		return result.Images, nil
	}

	code := result.Code
	if code == "" {
		code = fmt.Sprintf("http_%d", resp.StatusCode)
	}
	return "", &ProviderError{Provider: "smms", Code: code, Message: result.Message}
}
