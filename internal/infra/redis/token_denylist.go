package redis

import (
	"context"
	"time"
)

// TokenDenylist remembers logged-out session tokens until they would have expired anyway.
type TokenDenylist struct {
	client RedisClient
}

func NewTokenDenylist(client RedisClient) *TokenDenylist {
	return &TokenDenylist{client: client}
}

func (d *TokenDenylist) key(tokenID string) string {
	return "revoked_token:" + tokenID
}

// Revoke stores tokenID until expiresAt. Already expired tokens are ignored.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.key(tokenID), "1", ttl)
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return d.client.Exists(ctx, d.key(tokenID))
}
