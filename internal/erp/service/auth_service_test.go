package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/bws/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func authConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "secret", AccessTokenExpire: time.Hour, Issuer: "bws"},
	}
}

func TestAuthService_DefaultUsers(t *testing.T) {
	svc, err := NewAuthService(authConfig())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	res, err := svc.Login(context.Background(), "admin", "bws123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != "U001" || res.User.Name != "Admin User" || res.User.Roles[0] != "Admin" {
		t.Errorf("unexpected user %+v", res.User)
	}
	if res.ExpiresIn != 3600 {
		t.Errorf("expires_in = %d", res.ExpiresIn)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(res.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["uid"] != "U001" || claims["iss"] != "bws" {
		t.Errorf("claims = %v", claims)
	}

	acc, err := svc.Login(context.Background(), "Accounts", "acc123")
	if err != nil || acc.User.Roles[0] != "Accounts" {
		t.Fatalf("accounts login: %v %+v", err, acc)
	}

	if _, err := svc.Login(context.Background(), "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "bws123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if u, ok := svc.GetUser("U002"); !ok || u.Username != "accounts" {
		t.Errorf("GetUser(U002) = %+v, %v", u, ok)
	}
}

func TestAuthService_ConfiguredUsers(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("gate"), bcrypt.MinCost)
	cfg := authConfig()
	cfg.Auth.Users = []config.UserConfig{
		{Username: "guard", Name: "Gate Guard", PasswordHash: string(hash), Roles: []string{"Security Guard"}},
	}
	svc, err := NewAuthService(cfg)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	if _, err := svc.Login(context.Background(), "admin", "bws123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("built-in users must be disabled when users are configured")
	}
	res, err := svc.Login(context.Background(), "guard", "gate")
	if err != nil || res.User.Roles[0] != "Security Guard" {
		t.Fatalf("guard login: %v", err)
	}

	cfg.Auth.Users[0].Roles = []string{"Janitor"}
	if _, err := NewAuthService(cfg); err == nil {
		t.Errorf("unknown role should be rejected")
	}
}

func TestAuthService_DefaultUsersRefusedInRelease(t *testing.T) {
	cfg := authConfig()
	cfg.Server.Mode = "release"

	if _, err := NewAuthService(cfg); !errors.Is(err, ErrDefaultUsersInRelease) {
		t.Fatalf("expected ErrDefaultUsersInRelease, got %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	cfg.Auth.Users = []config.UserConfig{
		{Username: "ops", Name: "Ops", PasswordHash: string(hash), Roles: []string{"Admin"}},
	}
	svc, err := NewAuthService(cfg)
	if err != nil {
		t.Fatalf("configured users in release: %v", err)
	}
	if svc.UsingDefaultUsers() {
		t.Error("configured users reported as built-in")
	}
	if _, err := svc.Login(context.Background(), "admin", "bws123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("default admin still accepted: %v", err)
	}
}

func TestAuthService_DefaultUsersFlaggedInDebug(t *testing.T) {
	svc, err := NewAuthService(authConfig())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	if !svc.UsingDefaultUsers() {
		t.Error("expected built-in accounts outside release mode")
	}
}
