package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitfantasy/bws/internal/config"
	"github.com/bitfantasy/bws/internal/erp/navigation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User 登录用户（静态配置）
type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
	passwordHash []byte
}

// defaultUsers 未配置用户时的内置账号
var defaultUsers = []struct {
	username, password, name, email, role string
}{
	{"admin", "bws123", "Admin User", "admin@bws.com", navigation.RoleAdmin},
	{"accounts", "acc123", "Accounts User", "accounts@bws.com", navigation.RoleAccounts},
}

// AuthService 认证服务
type AuthService struct {
	users  map[string]*User
	byID   map[string]*User
	secret []byte
	expire time.Duration
	issuer string

	builtin bool
}

// NewAuthService 根据配置加载用户表
// release 模式下必须配置 auth.users，内置账号仅用于开发
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	if len(cfg.Auth.Users) == 0 && cfg.Server.Mode == "release" {
		return nil, ErrDefaultUsersInRelease
	}

	s := &AuthService{
		users:  map[string]*User{},
		byID:   map[string]*User{},
		secret: []byte(cfg.JWT.Secret),
		expire: cfg.JWT.AccessTokenExpire,
		issuer: cfg.JWT.Issuer,
	}
	if s.expire <= 0 {
		s.expire = 12 * time.Hour
	}

	if len(cfg.Auth.Users) == 0 {
		s.builtin = true
		for i, u := range defaultUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash default password: %w", err)
			}
			s.add(&User{
				ID:           fmt.Sprintf("U%03d", i+1),
				Username:     u.username,
				Name:         u.name,
				Email:        u.email,
				Roles:        []string{u.role},
				passwordHash: hash,
			})
		}
		return s, nil
	}

	for i, u := range cfg.Auth.Users {
		for _, role := range u.Roles {
			if !navigation.IsKnownRole(role) {
				return nil, fmt.Errorf("user %s: unknown role %q", u.Username, role)
			}
		}
		s.add(&User{
			ID:           fmt.Sprintf("U%03d", i+1),
			Username:     u.Username,
			Name:         u.Name,
			Email:        u.Email,
			Roles:        u.Roles,
			passwordHash: []byte(u.PasswordHash),
		})
	}
	return s, nil
}

// UsingDefaultUsers 是否在使用内置账号
func (s *AuthService) UsingDefaultUsers() bool { return s.builtin }

func (s *AuthService) add(u *User) {
	s.users[strings.ToLower(u.Username)] = u
	s.byID[u.ID] = u
}

// LoginResult 登录结果
type LoginResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

// Login 用户名密码登录
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(s.expire.Seconds()),
		User:        u,
	}, nil
}

// GetUser 根据ID获取用户
func (s *AuthService) GetUser(id string) (*User, bool) {
	u, ok := s.byID[id]
	return u, ok
}

func (s *AuthService) generateToken(u *User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"uid":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"roles": u.Roles,
		"iss":   s.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.expire).Unix(),
		"jti":   uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}
