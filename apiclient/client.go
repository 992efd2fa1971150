package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// TokenSource supplies the bearer credential that is current at the moment a
// request is issued. The second return is false when no usable session
// exists, in which case the call proceeds unauthenticated.
type TokenSource interface {
	AuthHeader() (string, bool)
}

// ResponseMode declares how a success response body is decoded. The caller
// declares the mode; the client never infers it from headers.
type ResponseMode int

const (
	// ModeJSON decodes the body into a normalized Envelope (default).
	ModeJSON ResponseMode = iota
	// ModeBinary returns the body untouched in Envelope.Raw.
	ModeBinary
	// ModeText returns the body untouched in Envelope.Raw.
	ModeText
)

// Client wraps outbound HTTP calls to the backend: it injects the current
// bearer token, normalizes responses into the Envelope shape, and exposes
// typed verbs. HTTP-level failures (4xx/5xx) become failure envelopes;
// only transport-level failures are returned as errors, which callers must
// treat as a distinct, retryable category.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client (primarily for testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the client's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a Client targeting the backend at baseURL. tokens may be nil
// for a client that only ever calls unauthenticated endpoints.
func New(baseURL string, tokens TokenSource, options ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		tokens:     tokens,
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// RequestOption configures a single call.
type RequestOption func(*requestConfig)

type requestConfig struct {
	mode    ResponseMode
	headers http.Header
}

// WithResponseMode declares how the success body should be decoded.
func WithResponseMode(mode ResponseMode) RequestOption {
	return func(cfg *requestConfig) {
		cfg.mode = mode
	}
}

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		if cfg.headers == nil {
			cfg.headers = http.Header{}
		}
		cfg.headers.Set(key, value)
	}
}

// Get issues an authorized GET request.
func (c *Client) Get(ctx context.Context, endpoint string, options ...RequestOption) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil, "", options)
}

// Post issues an authorized POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any, options ...RequestOption) (*Envelope, error) {
	reader, err := jsonBody(body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Post] encode body")
	}
	return c.do(ctx, http.MethodPost, endpoint, reader, "application/json", options)
}

// Put issues an authorized PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any, options ...RequestOption) (*Envelope, error) {
	reader, err := jsonBody(body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Put] encode body")
	}
	return c.do(ctx, http.MethodPut, endpoint, reader, "application/json", options)
}

// Delete issues an authorized DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, options ...RequestOption) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, endpoint, nil, "", options)
}

// UploadBinary issues an authorized multipart POST carrying the file under
// the "file" field plus any additional metadata fields, each serialized
// individually.
func (c *Client) UploadBinary(ctx context.Context, endpoint, filename string, content io.Reader, fields map[string]string, options ...RequestOption) (*Envelope, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UploadBinary] create form file")
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadBinary] copy file content")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writer.WriteField(name, fields[name]); err != nil {
			return nil, errors.Wrapf(err, "[Client.UploadBinary] write field %q", name)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadBinary] close multipart writer")
	}

	return c.do(ctx, http.MethodPost, endpoint, &buf, writer.FormDataContentType(), options)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, options []RequestOption) (*Envelope, error) {
	cfg := requestConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.do] new %s request", method)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, values := range cfg.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	// Read the session that is current now, not one captured earlier.
	if c.tokens != nil {
		if header, ok := c.tokens.AuthHeader(); ok {
			req.Header.Set("Authorization", header)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("transport failure")
		return nil, errors.Wrapf(err, "[Client.do] %s %s", method, endpoint)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.do] read %s %s response", method, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failureEnvelope(resp.StatusCode, raw), nil
	}

	switch cfg.mode {
	case ModeBinary, ModeText:
		return &Envelope{Success: true, Raw: raw}, nil
	default:
		return envelopeFromBody(raw), nil
	}
}

func jsonBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(payload), nil
}
