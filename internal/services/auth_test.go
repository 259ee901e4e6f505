package services

import (
	"testing"

	"github.com/projecthub/backend/internal/config"
	"github.com/projecthub/backend/internal/store"
	"github.com/projecthub/backend/internal/utils"
)

func newAuthService() (*AuthService, *store.MemoryStore) {
	utils.SetJWTSecret("test-secret-for-auth-service")
	st := store.NewMemoryStore()
	return NewAuthService(st, &config.JWTConfig{Secret: "test-secret-for-auth-service", ExpireHour: 24}), st
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthService()

	user, err := svc.Register(&RegisterRequest{Username: "alice", Password: "password123", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role != "user" {
		t.Errorf("role = %q, expected user", user.Role)
	}
	if !user.IsActive {
		t.Error("new accounts should be active")
	}
	if user.Password == "password123" {
		t.Error("password must be stored hashed")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthService()

	if _, err := svc.Register(&RegisterRequest{Username: "alice", Password: "password123"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Register(&RegisterRequest{Username: "alice", Password: "different456"}); err == nil {
		t.Error("duplicate username should be rejected")
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService()
	svc.Register(&RegisterRequest{Username: "alice", Password: "password123"})

	resp, err := svc.Login(&LoginRequest{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token == "" {
		t.Error("token should not be empty")
	}
	if resp.User.LastLogin == nil {
		t.Error("LastLogin should be stamped on login")
	}

	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("token username = %q, expected alice", claims.Username)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	svc.Register(&RegisterRequest{Username: "alice", Password: "password123"})

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "wrong"}); err == nil {
		t.Error("wrong password should be rejected")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newAuthService()

	if _, err := svc.Login(&LoginRequest{Username: "ghost", Password: "whatever"}); err == nil {
		t.Error("unknown user should be rejected")
	}
}

func TestLogin_DisabledUser(t *testing.T) {
	svc, st := newAuthService()
	user, _ := svc.Register(&RegisterRequest{Username: "alice", Password: "password123"})

	user.IsActive = false
	if err := st.SaveUser(user); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "password123"}); err == nil {
		t.Error("disabled user should be rejected")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService()
	user, _ := svc.Register(&RegisterRequest{Username: "alice", Password: "password123"})

	if err := svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "password123", NewPassword: "newpass456"}); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "newpass456"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(&LoginRequest{Username: "alice", Password: "password123"}); err == nil {
		t.Error("old password should no longer work")
	}
}

func TestChangePassword_WrongOld(t *testing.T) {
	svc, _ := newAuthService()
	user, _ := svc.Register(&RegisterRequest{Username: "alice", Password: "password123"})

	if err := svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newpass456"}); err == nil {
		t.Error("wrong old password should be rejected")
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	svc, st := newAuthService()

	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("CreateAdminIfNotExists() error = %v", err)
	}

	admin, err := st.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("admin account missing: %v", err)
	}
	if admin.Role != "admin" {
		t.Errorf("role = %q, expected admin", admin.Role)
	}

	// Second call is a no-op.
	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("second call error = %v", err)
	}
	count, _ := st.CountUsersByRole("admin")
	if count != 1 {
		t.Errorf("admin count = %d, expected 1", count)
	}
}
