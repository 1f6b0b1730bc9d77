// Package detector provides an HTTP client for the SafePost analyze
// endpoint.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/safepost/safepost-eval/internal/evaluation"
	apperrors "github.com/safepost/safepost-eval/internal/pkg/errors"
)

// Observation is a tri-state category flag as returned by the endpoint:
// present-true, present-false, or absent from the response entirely.
// Absent narrows to false when the label set is built; the distinction
// only exists at this ingestion boundary.
type Observation int

const (
	ObservationAbsent Observation = iota
	ObservationFalse
	ObservationTrue
)

// Bool narrows the observation to a boolean, with absent treated as
// false.
func (o Observation) Bool() bool {
	return o == ObservationTrue
}

// Analysis is one successful detector response.
type Analysis struct {
	Safe          Observation
	Emails        Observation
	Address       Observation
	PhoneNumbers  Observation
	LicensePlates Observation

	Message              string
	Reasoning            string
	RedactionSuggestions []string
}

// Labels narrows the tri-state observations into a prediction label set.
func (a *Analysis) Labels() evaluation.LabelSet {
	return evaluation.LabelSet{
		Safe:          a.Safe.Bool(),
		Emails:        a.Emails.Bool(),
		Address:       a.Address.Bool(),
		PhoneNumbers:  a.PhoneNumbers.Bool(),
		LicensePlates: a.LicensePlates.Bool(),
	}
}

// Config configures the client.
type Config struct {
	// Endpoint is the analyze endpoint URL.
	Endpoint string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// RequestsPerSecond paces sequential analyze calls. Zero disables
	// pacing.
	RequestsPerSecond float64

	// MaxIdleConns controls the maximum number of idle (keep-alive)
	// connections across all hosts. Zero means no limit.
	MaxIdleConns int

	// MaxConnsPerHost limits the total number of connections per host.
	// Zero means no limit.
	MaxConnsPerHost int

	// IdleConnTimeout is the maximum amount of time an idle (keep-alive)
	// connection will remain idle before closing itself.
	IdleConnTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:        "http://localhost:3000/api/analyze",
		Timeout:         30 * time.Second,
		MaxIdleConns:    10,
		MaxConnsPerHost: 10,
		IdleConnTimeout: 90 * time.Second,
	}
}

// Client is an HTTP client for the analyze endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a client with the given configuration.
func New(cfg Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxConnsPerHost: cfg.MaxConnsPerHost,
		IdleConnTimeout: cfg.IdleConnTimeout,
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		limiter: limiter,
	}
}

// response mirrors the endpoint's JSON body. Pointer fields keep "field
// absent" distinguishable from an explicit false.
type response struct {
	Safe                 *bool    `json:"safe"`
	Emails               *bool    `json:"emails"`
	Address              *bool    `json:"address"`
	PhoneNumbers         *bool    `json:"phoneNumbers"`
	LicensePlates        *bool    `json:"licensePlates"`
	Message              string   `json:"message"`
	Reasoning            string   `json:"reasoning"`
	RedactionSuggestions []string `json:"redactionSuggestions"`
}

// Analyze submits one image for analysis. The image file handle is held
// only for the duration of the upload. Any failure is returned as a
// detector error for the caller to convert into an error-marked record.
func (c *Client) Analyze(ctx context.Context, imagePath string) (*Analysis, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.DetectorError("waiting for request slot", err)
		}
	}

	body, contentType, err := buildUpload(imagePath)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, apperrors.DetectorError("building analyze request", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.DetectorError("analyze request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.DetectorError(
			fmt.Sprintf("analyze returned status %d", resp.StatusCode), nil).
			WithDetail("body", strings.TrimSpace(string(snippet)))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, apperrors.DetectorError("decoding analyze response", err)
	}

	return &Analysis{
		Safe:          observe(r.Safe),
		Emails:        observe(r.Emails),
		Address:       observe(r.Address),
		PhoneNumbers:  observe(r.PhoneNumbers),
		LicensePlates: observe(r.LicensePlates),

		Message:              r.Message,
		Reasoning:            r.Reasoning,
		RedactionSuggestions: r.RedactionSuggestions,
	}, nil
}

func observe(p *bool) Observation {
	switch {
	case p == nil:
		return ObservationAbsent
	case *p:
		return ObservationTrue
	default:
		return ObservationFalse
	}
}

// buildUpload assembles the multipart body with the image bytes under the
// "image" field.
func buildUpload(imagePath string) (*bytes.Buffer, string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, "", apperrors.DetectorError("opening image", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(imagePath)))
	header.Set("Content-Type", MIMEType(imagePath))

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", apperrors.DetectorError("building multipart body", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", apperrors.DetectorError("reading image", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", apperrors.DetectorError("finalizing multipart body", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// MIMEType infers the image MIME type from the file extension. Unknown
// extensions fall back to image/jpeg.
func MIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
