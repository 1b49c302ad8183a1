package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// memoryUserRepo is an in-memory ports.UserRepository.
type memoryUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *entities.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func newTestAuthService() (*AuthService, *memoryUserRepo) {
	repo := newMemoryUserRepo()
	cfg := config.JWTConfig{Secret: "test-secret", ExpiresIn: time.Hour, Issuer: "taskboard-test"}
	return NewAuthService(repo, cfg, logger.NewNop()), repo
}

func register(t *testing.T, svc *AuthService) *ports.AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), ports.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return result
}

func TestRegisterAndValidateToken(t *testing.T) {
	svc, _ := newTestAuthService()

	result := register(t, svc)
	require.NotNil(t, result.User)
	assert.NotEmpty(t, result.Token)
	assert.Empty(t, result.User.PasswordHash)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	register(t, svc)

	_, err := svc.Register(context.Background(), ports.RegisterRequest{
		Username: "other",
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, entities.ErrEmailTaken)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService()
	register(t, svc)

	_, err := svc.Register(context.Background(), ports.RegisterRequest{
		Username: "alice",
		Email:    "alice2@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, entities.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	register(t, svc)

	result, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Empty(t, result.User.PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()
	register(t, svc)

	_, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "alice@example.com",
		Password: "battery staple",
	})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := newTestAuthService()
	result := register(t, svc)

	other := NewAuthService(newMemoryUserRepo(), config.JWTConfig{Secret: "different", ExpiresIn: time.Hour}, logger.NewNop())
	_, err := other.ValidateToken(result.Token)
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}
