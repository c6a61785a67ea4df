package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/trackswift/internal/cache"
	"github.com/trackswift/internal/config"
	"github.com/trackswift/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 管理员认证服务
type AuthService struct {
	cfg          *config.Config
	passwordHash []byte
	now          func() time.Time
}

// NewAuthService 创建认证服务，配置中的明文密码只在启动时做一次 bcrypt
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	hash, err := HashPassword(cfg.Admin.Password)
	if err != nil {
		return nil, err
	}
	return &AuthService{cfg: cfg, passwordHash: []byte(hash), now: time.Now}, nil
}

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AdminClaims 管理员会话声明，jti 用于注销
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login 校验账号密码并签发会话令牌
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Admin.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.GenerateJWT(username)
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(username string) (string, time.Time, error) {
	now := s.now()
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseJWT 解析并校验签名与有效期
func (s *AuthService) ParseJWT(tokenString string) (*AdminClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// Authenticate 校验会话令牌：签名、有效期、用户名与注销状态
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*AdminClaims, error) {
	if tokenString == "" {
		return nil, ErrSessionInvalid
	}
	claims, err := s.ParseJWT(tokenString)
	if err != nil {
		return nil, ErrSessionInvalid
	}
	if claims.Username != s.cfg.Admin.Username {
		return nil, ErrSessionInvalid
	}
	revoked, err := cache.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		logger.Warnw("session_revocation_check_failed", "jti", claims.ID, "error", err)
		return nil, ErrSessionInvalid
	}
	if revoked {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}

// Logout 注销令牌；无效令牌直接忽略
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	claims, err := s.ParseJWT(tokenString)
	if err != nil {
		return nil
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := cache.RevokeSession(ctx, claims.ID, claims.Username, expiresAt); err != nil {
		return err
	}
	logger.Infow("admin_logout", "username", claims.Username, "jti", claims.ID)
	return nil
}

// CookieName 会话 Cookie 名称
func (s *AuthService) CookieName() string {
	if s.cfg.JWT.CookieName == "" {
		return "trackswift_admin"
	}
	return s.cfg.JWT.CookieName
}

// CookieSecure 是否仅 HTTPS 发送 Cookie
func (s *AuthService) CookieSecure() bool {
	return s.cfg.JWT.Secure
}
