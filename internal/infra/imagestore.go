package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// uploadTimeout bounds the whole photo upload. If it elapses, the caller
// gets a deadline error and must not proceed to the append step.
const uploadTimeout = 30 * time.Second

// ImageStoreClient uploads photos to a Cloudinary-style unsigned upload
// endpoint and returns the public URL. Calls go through a circuit breaker so
// a downed host fast-fails instead of burning the full timeout every time.
type ImageStoreClient struct {
	uploadURL  string
	preset     string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewImageStoreClient(uploadURL, preset string) *ImageStoreClient {
	return &ImageStoreClient{
		uploadURL:  uploadURL,
		preset:     preset,
		httpClient: &http.Client{Timeout: uploadTimeout},
		cb:         NewCircuitBreaker(DefaultCBConfig()),
	}
}

// uploadResponse is the JSON body returned by the image host.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

// Upload posts the image as a multipart form and returns its public URL.
// The operation is bounded by uploadTimeout regardless of the caller's context.
func (c *ImageStoreClient) Upload(ctx context.Context, name string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	var fotoURL string
	err := c.cb.Execute(func() error {
		url, err := c.doUpload(ctx, name, data)
		if err != nil {
			return err
		}
		fotoURL = url
		return nil
	})
	if err == ErrCircuitOpen {
		return "", fmt.Errorf("imagestore: host unavailable (circuit open)")
	}
	return fotoURL, err
}

func (c *ImageStoreClient) doUpload(ctx context.Context, name string, data []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("imagestore: build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("imagestore: write payload: %w", err)
	}
	if err := w.WriteField("upload_preset", c.preset); err != nil {
		return "", fmt.Errorf("imagestore: write preset: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("imagestore: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("imagestore: create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("imagestore: host unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("imagestore: host returned %d: %s", resp.StatusCode, string(b))
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("imagestore: decode response: %w", err)
	}
	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	return result.URL, nil
}
