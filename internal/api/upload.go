// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// FILE UPLOAD
// =============================================================================

// UploadResponse is the body of a successful POST /upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// ErrNotTextFile is returned before any network call for non-.txt uploads.
var ErrNotTextFile = &ClientError{Type: ErrTypeBadRequest, Message: "only .txt files can be uploaded"}

// Upload sends a text file to the backend, which stores its content as the
// session's document context. The content is normalized to clean UTF-8
// (BOM stripped, NFC) before sending so the document wrapper the server
// builds round-trips through the file-context extraction.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*UploadResponse, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".txt") {
		return nil, ErrNotTextFile
	}

	normalized, err := normalizeText(content)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeBadRequest, Message: "failed to read file", Cause: err}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload", Cause: err}
	}
	if _, err := part.Write(normalized); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/upload", &buf)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.wrapTransportError(err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var out UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return &out, nil
}

// normalizeText decodes the file as UTF-8 (tolerating a BOM) and applies
// NFC normalization.
func normalizeText(r io.Reader) ([]byte, error) {
	decoder := unicode.UTF8BOM.NewDecoder()
	data, err := io.ReadAll(transform.NewReader(r, transform.Chain(decoder, norm.NFC)))
	if err != nil {
		return nil, err
	}
	return data, nil
}
