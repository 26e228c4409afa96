package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/go-playground/validator/v10"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
)

const maxErrorBody = 64 << 10

// Client talks to the restaurant REST backend. The bearer credential is
// taken from the request context.
type Client struct {
	httpClient *http.Client
	baseURL    string
	validate   *validator.Validate
	logger     aqm.Logger
}

// NewClient reads services.backend.url and backend.timeout. No timeout is
// applied unless configured.
func NewClient(config *aqm.Config, logger aqm.Logger) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	baseURL, _ := config.GetString("services.backend.url")
	if baseURL == "" {
		return nil, fmt.Errorf("services.backend.url not configured")
	}

	var timeout time.Duration
	if raw, ok := config.GetString("backend.timeout"); ok && raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid backend.timeout %q: %w", raw, err)
		}
		timeout = parsed
	}

	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout}, logger), nil
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger aqm.Logger) *Client {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		validate:   newValidator(),
		logger:     logger,
	}
}

func (c *Client) log() aqm.Logger {
	return c.logger
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	return c.send(ctx, op, method, path, nil, body, out)
}

// send issues a request and decodes a 2xx JSON body into out when out is
// not nil.
func (c *Client) send(ctx context.Context, op, method, path string, header http.Header, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := identity.TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
		c.log().Debug("backend error", "op", op, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return &ParseError{Op: op, Err: fmt.Errorf("expected JSON, got %q", resp.Header.Get("Content-Type"))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Op: op, Err: err}
	}

	return nil
}

// check validates a decoded record at the boundary.
func (c *Client) check(op string, record interface{}) error {
	if err := c.validate.Struct(record); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ParseError{Op: op, Err: fmt.Errorf("field %s failed %s", verrs[0].Namespace(), verrs[0].Tag())}
		}
		return &ParseError{Op: op, Err: err}
	}
	return nil
}

func readMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var msg messageRecord
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ""
	}
	if msg.Message != "" {
		return msg.Message
	}
	return msg.Error
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
