package cache

import (
	"context"
	"strings"
	"time"
)

// RevokedSession 已注销的管理员会话
type RevokedSession struct {
	TokenID   string `json:"jti"`
	Username  string `json:"username"`
	RevokedAt int64  `json:"revoked_at"`
}

func revokedSessionKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

// RevokeSession 记录注销的令牌，TTL 为令牌剩余有效期
func RevokeSession(ctx context.Context, tokenID, username string, expiresAt time.Time) error {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return SetJSON(ctx, revokedSessionKey(tokenID), &RevokedSession{
		TokenID:   tokenID,
		Username:  username,
		RevokedAt: time.Now().Unix(),
	}, ttl)
}

// IsSessionRevoked 判断令牌是否已注销；缓存未启用时始终为 false
func IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return false, nil
	}
	return Exists(ctx, revokedSessionKey(tokenID))
}
