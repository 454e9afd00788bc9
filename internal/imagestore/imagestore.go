// Package imagestore uploads avatar images to an external image host.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Uploader pushes a local file to the image host and returns its public URL.
// Handlers depend on this interface so tests can substitute a fake.
type Uploader interface {
	Upload(ctx context.Context, filePath string) (string, error)
}

// HTTPUploader uploads via an unsigned multipart POST, the way image CDNs
// like Cloudinary accept preset-scoped uploads.
type HTTPUploader struct {
	uploadURL string
	preset    string
	client    *http.Client
}

// NewHTTPUploader returns an uploader targeting the given upload endpoint.
func NewHTTPUploader(uploadURL, preset string) *HTTPUploader {
	return &HTTPUploader{
		uploadURL: uploadURL,
		preset:    preset,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

func (u *HTTPUploader) Upload(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open upload file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("failed to write upload preset: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to copy upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("image store returned status %d: %s", resp.StatusCode, raw)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode image store response: %w", err)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("image store response missing secure_url")
	}
	return parsed.SecureURL, nil
}
