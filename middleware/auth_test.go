package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatsalakO/social-meda-api/utils"
)

const testSecret = "middleware-secret"

func newAuthEngine(blacklist *utils.TokenBlacklist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/who", AuthRequired(testSecret, blacklist), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user_id": ctx.GetUint(ContextUserIDKey), "email": ctx.GetString(ContextEmailKey)})
	})
	return r
}

func request(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	blacklist := utils.NewTokenBlacklist(nil)
	r := newAuthEngine(blacklist)

	token, err := utils.GenerateToken(testSecret, 7, "a@example.com", time.Hour)
	require.NoError(t, err)
	otherKey, err := utils.GenerateToken("another-secret", 7, "a@example.com", time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateToken(testSecret, 7, "a@example.com", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer  ", want: http.StatusUnauthorized},
		{name: "other key", header: "Bearer " + otherKey, want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + token, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(r, tt.header)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7,"email":"a@example.com"}`, w.Body.String())
			}
		})
	}

	blacklist.Add(token, time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer "+token).Code)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimitMiddleware(2), func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	// burst is perMinute/2
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}
