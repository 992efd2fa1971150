package auth

import "errors"

var (
	// InvalidCredentialsErr is the uniform user-facing authentication
	// failure. Wrong password, unknown account, and unreachable auth
	// endpoint all collapse into it so callers cannot enumerate accounts.
	InvalidCredentialsErr = errors.New("invalid credentials")

	// ServerErr marks a backend-side login failure. It is surfaced to logs
	// only; the caller still receives InvalidCredentialsErr.
	ServerErr = errors.New("authentication server error")
)
