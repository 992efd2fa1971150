package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/signetdash/signet/session"
)

const loginEndpoint = "/auth/login"

// Service exchanges an email/password pair for a backend-issued identity by
// calling the remote login endpoint. One attempt is one round trip; there are
// no retries and no side effects beyond the network call.
type Service struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithHTTPClient sets the HTTP client used for the login round trip
// (primarily for testing).
func WithHTTPClient(client *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = client
	}
}

// NewService creates a Service targeting the backend at baseURL.
func NewService(baseURL string, log zerolog.Logger, options ...ServiceOption) *Service {
	service := &Service{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        log,
	}
	for _, opt := range options {
		opt(service)
	}
	return service
}

// loginRequest is the body sent to the login endpoint. Credentials are
// transient: they exist for the duration of one attempt and are never stored.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse mirrors the backend login payload.
type loginResponse struct {
	User struct {
		ID     string `json:"id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
		Role   string `json:"role"`
		Sector string `json:"sector"`
	} `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticate performs a single login round trip and returns the normalized
// identity on success. Every failure mode, whether empty fields, transport
// failure, a non-2xx status, or an undecodable body, yields
// InvalidCredentialsErr to the caller; server-side causes are logged
// distinctly but never surfaced.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*session.Identity, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, InvalidCredentialsErr
	}

	payload, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Authenticate] marshal credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Authenticate] new request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Error().Err(err).Msg("login transport failure")
		return nil, InvalidCredentialsErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode >= 500 {
			s.log.Error().Err(ServerErr).Int("status", resp.StatusCode).Msg("login rejected by backend")
		}
		return nil, InvalidCredentialsErr
	}

	var decoded loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		s.log.Error().Err(err).Msg("login response undecodable")
		return nil, InvalidCredentialsErr
	}

	return &session.Identity{
		Claims: session.Claims{
			ID:     decoded.User.ID,
			Name:   decoded.User.Name,
			Email:  decoded.User.Email,
			Role:   decoded.User.Role,
			Sector: decoded.User.Sector,
		},
		Tokens: session.TokenPair{
			AccessToken:  decoded.AccessToken,
			RefreshToken: decoded.RefreshToken,
		},
	}, nil
}
