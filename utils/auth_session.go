package utils

import (
	"context"
	"fmt"
	"time"
)

// Auth token hashes live in the auth cache so that sign-out can revoke
// tokens before they expire.

func authTokenKey(userID, tokenHash string) string {
	return fmt.Sprintf("auth:%s:%s", userID, tokenHash)
}

// StoreAuthToken records a token hash for the user with the given TTL.
func StoreAuthToken(ctx context.Context, userID, tokenHash string, ttl time.Duration) error {
	return GetAuthCacheClient().Set(ctx, authTokenKey(userID, tokenHash), "1", ttl).Err()
}

// IsAuthTokenValid reports whether the token hash is still registered.
func IsAuthTokenValid(ctx context.Context, userID, tokenHash string) bool {
	n, err := GetAuthCacheClient().Exists(ctx, authTokenKey(userID, tokenHash)).Result()
	return err == nil && n > 0
}

// RevokeAuthToken drops one token hash for the user.
func RevokeAuthToken(ctx context.Context, userID, tokenHash string) error {
	return GetAuthCacheClient().Del(ctx, authTokenKey(userID, tokenHash)).Err()
}
