// Package imagehost uploads images to a Cloudinary-style hosted image service.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"obiabedidi/errs"
	"obiabedidi/filemgr"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
)

const DefaultBaseURL = "https://api.cloudinary.com/v1_1"

type Config struct {
	CloudName    string
	UploadPreset string
	APIKey       string
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	Timeout time.Duration
}

// Cloudinary performs unsigned preset uploads. Calls go through a circuit breaker;
// a failed upload is never retried.
type Cloudinary struct {
	cfg    Config
	client *http.Client
	cb     *gobreaker.CircuitBreaker[string]
}

func New(cfg Config) (*Cloudinary, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil, errors.New("imagehost: cloud name and upload preset are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "cloudinary",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &Cloudinary{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}, cb: cb}, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends f and returns the hosted secure URL.
func (c *Cloudinary) Upload(ctx context.Context, f filemgr.File) (string, error) {
	url, err := c.cb.Execute(func() (string, error) {
		return c.upload(ctx, f)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: image host unavailable", errs.ErrUpstream)
	}
	return url, err
}

func (c *Cloudinary) upload(ctx context.Context, f filemgr.File) (string, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", err
	}
	_ = mw.WriteField("upload_preset", c.cfg.UploadPreset)
	if c.cfg.APIKey != "" {
		_ = mw.WriteField("api_key", c.cfg.APIKey)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: upload image: %v", errs.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read upload response: %v", errs.ErrUpstream, err)
	}

	var out uploadResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Status
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("%w: upload image: %s", errs.ErrUpstream, msg)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("%w: upload response has no secure_url", errs.ErrUpstream)
	}
	return out.SecureURL, nil
}

func (c *Cloudinary) State() string {
	return c.cb.State().String()
}
