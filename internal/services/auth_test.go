package services

import (
	"errors"
	"testing"

	"github.com/tripmesh/backend/internal/config"
	"github.com/tripmesh/backend/internal/models"
	"github.com/tripmesh/backend/internal/utils"
	"github.com/tripmesh/backend/pkg/response"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	return NewAuthService(newTestDB(t), &config.JWTConfig{Secret: "test-secret", ExpireHour: 1})
}

func TestRegister_And_DuplicateUsername(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Password == "secret1" {
		t.Error("password must be stored hashed")
	}
	if user.Nickname != "alice" {
		t.Errorf("Nickname = %q, expected username fallback", user.Nickname)
	}

	_, err = svc.Register(&RegisterRequest{Username: "alice", Password: "other123"})
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 409 {
		t.Fatalf("expected conflict for duplicate username, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "bob", Password: "secret1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(&LoginRequest{Username: "bob", Password: "secret1"}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("tokens should be issued")
	}

	claims, err := utils.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("issued token failed to parse: %v", err)
	}
	if claims.Username != "bob" {
		t.Errorf("token username = %q, expected bob", claims.Username)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "carol", Password: "secret1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, req := range []*LoginRequest{
		{Username: "carol", Password: "wrong"},
		{Username: "nobody", Password: "secret1"},
	} {
		_, err := svc.Login(req, "", "")
		var appErr *response.AppError
		if !errors.As(err, &appErr) || appErr.HTTPStatus != 401 {
			t.Errorf("login %q/%q: expected unauthorized, got %v", req.Username, req.Password, err)
		}
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "dave", Password: "secret1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	login, err := svc.Login(&LoginRequest{Username: "dave", Password: "secret1"}, "", "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	refreshed, err := svc.Refresh(login.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("refresh must rotate the token")
	}

	// The old token is revoked and cannot be used again.
	_, err = svc.Refresh(login.RefreshToken, "", "")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 401 {
		t.Fatalf("expected unauthorized for reused refresh token, got %v", err)
	}

	// The new token still works.
	if _, err := svc.Refresh(refreshed.RefreshToken, "", ""); err != nil {
		t.Errorf("rotated token should be usable: %v", err)
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "erin", Password: "secret1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	login, err := svc.Login(&LoginRequest{Username: "erin", Password: "secret1"}, "", "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.RevokeRefreshToken(login.RefreshToken); err != nil {
		t.Fatalf("RevokeRefreshToken failed: %v", err)
	}

	_, err = svc.Refresh(login.RefreshToken, "", "")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 401 {
		t.Fatalf("expected unauthorized after revocation, got %v", err)
	}

	// Revoking an unknown token is a no-op.
	if err := svc.RevokeRefreshToken("does-not-exist"); err != nil {
		t.Errorf("unknown token revoke should not fail: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(&RegisterRequest{Username: "fred", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newpass1"})
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 400 {
		t.Fatalf("expected bad request for wrong old password, got %v", err)
	}

	if err := svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "secret1", NewPassword: "newpass1"}); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Username: "fred", Password: "newpass1"}, "", ""); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}

	var reloaded models.User
	if err := svc.db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.Password == "newpass1" {
		t.Error("new password must be stored hashed")
	}
}
