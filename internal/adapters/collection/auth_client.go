package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

type authEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Token string         `json:"token"`
		User  *entities.User `json:"user"`
	} `json:"data"`
}

// AuthClient authenticates against the API and establishes the session used
// by the remote collection store.
type AuthClient struct {
	api     *apiClient
	session ports.Session
}

// NewAuthClient creates an auth client sharing the remote store's base URL
// and session.
func NewAuthClient(baseURL string, timeout time.Duration, session ports.Session, log *logger.Logger) *AuthClient {
	return &AuthClient{
		api:     newAPIClient(baseURL, timeout, session, log),
		session: session,
	}
}

// Login exchanges credentials for a bearer token and establishes the
// session.
func (c *AuthClient) Login(ctx context.Context, req ports.LoginRequest) (*entities.User, error) {
	var env authEnvelope
	if err := c.api.do(ctx, http.MethodPost, "/auth/login", req, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Data.Token == "" {
		return nil, fmt.Errorf("%w: login rejected", entities.ErrUnauthorized)
	}

	c.session.Establish(env.Data.Token, env.Data.User)
	return env.Data.User, nil
}

// Register creates an account, then establishes the session with the
// returned token.
func (c *AuthClient) Register(ctx context.Context, req ports.RegisterRequest) (*entities.User, error) {
	var env authEnvelope
	if err := c.api.do(ctx, http.MethodPost, "/auth/register", req, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Data.Token == "" {
		return nil, fmt.Errorf("%w: registration rejected", entities.ErrUnauthorized)
	}

	c.session.Establish(env.Data.Token, env.Data.User)
	return env.Data.User, nil
}

// Me fetches the account behind the current session.
func (c *AuthClient) Me(ctx context.Context) (*entities.User, error) {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.api.do(ctx, http.MethodGet, "/auth/me", nil, &env); err != nil {
		return nil, err
	}

	var user entities.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("%w: decode user: %v", entities.ErrNetwork, err)
	}
	return &user, nil
}

// Logout clears the session. The API keeps no server-side session state.
func (c *AuthClient) Logout() {
	c.session.Clear()
}
