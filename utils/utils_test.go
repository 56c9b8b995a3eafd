package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", 42, "x@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "x@example.com", claims.Email)

	_, err = ParseToken("other", token)
	assert.Error(t, err)

	anonymous, err := GenerateToken("secret", 0, "", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken("secret", anonymous)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello world", Sanitize(`<a href="javascript:alert(1)">hello</a> <b>world</b>`))
	assert.Equal(t, "plain #tag", Sanitize("plain #tag"))
}

func TestTokenBlacklistMemoryFallback(t *testing.T) {
	b := NewTokenBlacklist(nil)
	assert.False(t, b.Contains("t1"))

	b.Add("t1", time.Now().Add(time.Minute))
	assert.True(t, b.Contains("t1"))

	// already expired tokens are not worth remembering
	b.Add("t2", time.Now().Add(-time.Minute))
	assert.False(t, b.Contains("t2"))
}

func TestNewCacheWithoutRedis(t *testing.T) {
	c := NewCache(nil, time.Minute)
	assert.IsType(t, NopCache{}, c)

	ctx := context.Background()
	c.SetJSON(ctx, "k", map[string]int{"a": 1})
	_, ok := c.GetBytes(ctx, "k")
	assert.False(t, ok)
}

func TestRollingFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gin.log")
	l, err := NewRollingFileLogger(path, "info", 1, 1, 1, false)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("visible")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"visible"`)
	assert.NotContains(t, string(b), "hidden")
}
