// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

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
	"strings"
	"time"

	"github.com/pdiddy/hpl-deck/internal/httputil"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

const (
	defaultServerURL   = "http://localhost:5001"
	convertFilePath    = "/v1/convert/file"
	defaultHTTPTimeout = 5 * time.Minute
)

// ServeConverter uploads PDFs to a docling-serve instance.
type ServeConverter struct {
	baseURL    string
	userAgent  string
	maxRetries int
	client     *http.Client
}

// NewServeConverter builds a client for cfg.ServerURL (default
// http://localhost:5001).
func NewServeConverter(cfg types.ConversionConfig) *ServeConverter {
	base := cfg.ServerURL
	if base == "" {
		base = defaultServerURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &ServeConverter{
		baseURL:    strings.TrimRight(base, "/"),
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *ServeConverter) Name() string { return "docling-serve" }

// serveResponse is the part of the docling-serve reply we read.
type serveResponse struct {
	Document struct {
		MDContent string `json:"md_content"`
	} `json:"document"`
	Status string `json:"status"`
	Errors []struct {
		Message string `json:"error_message"`
	} `json:"errors"`
}

func (s *ServeConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	body, contentType, err := multipartPDF(pdfPath)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+convertFilePath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, s.client, req, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("posting %s to docling-serve: %w", pdfPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("docling-serve returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var out serveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding docling-serve response: %w", err)
	}
	if out.Status != "" && out.Status != "success" && out.Status != "partial_success" {
		var msgs []string
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return "", fmt.Errorf("docling-serve status %s: %s", out.Status, strings.Join(msgs, "; "))
	}
	if strings.TrimSpace(out.Document.MDContent) == "" {
		return "", fmt.Errorf("docling-serve produced empty output for %s", pdfPath)
	}
	return out.Document.MDContent, nil
}

// multipartPDF encodes the PDF as the "files" field with Markdown as the
// only target format.
func multipartPDF(pdfPath string) ([]byte, string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("to_formats", "md"); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("image_export_mode", "placeholder"); err != nil {
		return nil, "", err
	}
	part, err := mw.CreateFormFile("files", filepath.Base(pdfPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading PDF %s: %w", pdfPath, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
