package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/taxepay/internal/config"
	"github.com/taxepay/internal/constants"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: "auth-test-secret", ExpireHours: 24},
	}
	return NewAuthService(cfg, repository.NewUserRepository(db)), db
}

func seedUser(t *testing.T, svc *AuthService, db *gorm.DB, email, password, status string) *models.User {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Agent",
		Role:         constants.RoleAgent,
		Status:       status,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestLoginIssuesParsableToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedUser(t, svc, db, "agent@taxepay.local", "s3cret-pass", constants.UserStatusActive)

	user, token, expiresAt, err := svc.Login("agent@taxepay.local", "s3cret-pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("expected a token with future expiry")
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last login should be stamped")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != constants.RoleAgent {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedUser(t, svc, db, "agent@taxepay.local", "s3cret-pass", constants.UserStatusActive)

	if _, _, _, err := svc.Login("agent@taxepay.local", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got: %v", err)
	}
	if _, _, _, err := svc.Login("nobody@taxepay.local", "s3cret-pass"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got: %v", err)
	}
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	seedUser(t, svc, db, "off@taxepay.local", "s3cret-pass", constants.UserStatusDisabled)

	if _, _, _, err := svc.Login("off@taxepay.local", "s3cret-pass"); err != ErrUserDisabled {
		t.Fatalf("expected ErrUserDisabled, got: %v", err)
	}
}

func TestParseJWTRejectsForeignToken(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	if _, err := svc.ParseJWT("not-a-token"); err == nil {
		t.Fatalf("garbage token should not parse")
	}
}
