package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatsalakO/social-meda-api/config"
	"github.com/MatsalakO/social-meda-api/store"
)

type envelope struct {
	Code   int             `json:"code"`
	Detail string          `json:"detail"`
	Data   json.RawMessage `json:"data"`
}

// mapCache is an in-process stand-in for the Redis response cache.
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (c *mapCache) GetBytes(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	return b, ok
}

func (c *mapCache) SetJSON(_ context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.items[key] = b
	c.mu.Unlock()
}

func (c *mapCache) InvalidateByPrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
}

type testAPI struct {
	t *testing.T
	r *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := config.AppConfig{
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
		GinMode:       "test",
		LogLevel:      "error",
	}
	r := SetupRouter(cfg, Deps{
		Store: store.NewMemory(),
		Cache: &mapCache{items: map[string][]byte{}},
	})
	return &testAPI{t: t, r: r}
}

func (a *testAPI) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *testAPI) decode(env envelope, dst interface{}) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(env.Data, dst))
}

// signup registers an account with a profile and returns (token, userID, profileID).
func (a *testAPI) signup(username string) (string, uint, uint) {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var reg struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	a.decode(env, &reg)

	w, env = a.do(http.MethodPost, "/api/v1/profiles", reg.Token, gin.H{
		"username":   username,
		"first_name": strings.ToUpper(username[:1]) + username[1:],
		"last_name":  "Tester",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var profile struct {
		ID uint `json:"id"`
	}
	a.decode(env, &profile)
	return reg.Token, reg.User.ID, profile.ID
}

func (a *testAPI) createPost(token, content string) uint {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/posts", token, gin.H{"content": content})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var post struct {
		ID uint `json:"id"`
	}
	a.decode(env, &post)
	return post.ID
}

func TestRequiresAuthentication(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(http.MethodGet, "/api/v1/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/profiles", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alice, _, aliceProfile := api.signup("alice")
	_, _, bobProfile := api.signup("bob")

	follow := fmt.Sprintf("/api/v1/profiles/%d/follow", bobProfile)
	unfollow := fmt.Sprintf("/api/v1/profiles/%d/unfollow", bobProfile)

	w, env := api.do(http.MethodPost, follow, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "You are now following this user", env.Detail)

	w, _ = api.do(http.MethodPost, follow, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPost, fmt.Sprintf("/api/v1/profiles/%d/follow", aliceProfile), alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/profiles/9999/follow", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = api.do(http.MethodGet, "/api/v1/profiles?username=bo", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []struct {
		Username       string `json:"username"`
		FollowersCount int64  `json:"followers_count"`
	}
	api.decode(env, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "bob", listed[0].Username)
	assert.EqualValues(t, 1, listed[0].FollowersCount)

	w, env = api.do(http.MethodGet, fmt.Sprintf("/api/v1/profiles/%d", aliceProfile), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Following []string `json:"following"`
		Followers []string `json:"followers"`
	}
	api.decode(env, &detail)
	assert.Equal(t, []string{"bob"}, detail.Following)
	assert.Empty(t, detail.Followers)

	w, env = api.do(http.MethodPost, unfollow, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Unfollowed successfully", env.Detail)

	w, _ = api.do(http.MethodPost, unfollow, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikeEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alice, aliceID, aliceProfile := api.signup("alice")
	bob, _, _ := api.signup("bob")
	post := api.createPost(bob, "bob writes")

	like := fmt.Sprintf("/api/v1/posts/%d/like", post)
	unlike := fmt.Sprintf("/api/v1/posts/%d/unlike", post)

	w, env := api.do(http.MethodPost, like, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "You liked this post", env.Detail)

	w, env = api.do(http.MethodPost, like, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "You have already liked this post", env.Detail)

	w, env = api.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/likes", post), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var likes []struct {
		User uint `json:"user"`
		Post uint `json:"post"`
	}
	api.decode(env, &likes)
	require.Len(t, likes, 1)
	assert.Equal(t, aliceID, likes[0].User)

	allLikes := fmt.Sprintf("/api/v1/profiles/%d/all-likes", aliceProfile)
	w, _ = api.do(http.MethodGet, allLikes, bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, env = api.do(http.MethodGet, allLikes, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	api.decode(env, &likes)
	require.Len(t, likes, 1)
	assert.Equal(t, post, likes[0].Post)

	w, env = api.do(http.MethodPost, unlike, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "You unliked this post", env.Detail)

	w, _ = api.do(http.MethodPost, unlike, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/posts/777/like", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alice, aliceID, _ := api.signup("alice")
	bob, _, _ := api.signup("bob")
	post := api.createPost(bob, "discuss")

	w, env := api.do(http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/add-comment", post), alice, gin.H{"text": "first!"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var comment struct {
		ID   uint   `json:"id"`
		User uint   `json:"user"`
		Post uint   `json:"post"`
		Text string `json:"text"`
	}
	api.decode(env, &comment)
	assert.Equal(t, aliceID, comment.User)
	assert.Equal(t, post, comment.Post)

	path := fmt.Sprintf("/api/v1/posts/%d/comments/%d", post, comment.ID)

	w, _ = api.do(http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(http.MethodPut, path, bob, gin.H{"text": "edited by bob"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You do not have permission to edit this comment.", env.Detail)

	w, _ = api.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = api.do(http.MethodPut, path, alice, gin.H{"text": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	api.decode(env, &comment)
	assert.Equal(t, "edited", comment.Text)

	w, env = api.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/comments", post), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []struct {
		ProfileName string `json:"profile_name"`
		Text        string `json:"text"`
	}
	api.decode(env, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "alice", comments[0].ProfileName)

	w, _ = api.do(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = api.do(http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostListAndCache(t *testing.T) {
	api := newTestAPI(t)
	alice, _, _ := api.signup("alice")
	bob, _, _ := api.signup("bob")
	post := api.createPost(alice, "hello #test")

	w, env := api.do(http.MethodGet, "/api/v1/posts?hashtag=test", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []struct {
		ID          uint   `json:"id"`
		ProfileName string `json:"profile_name"`
		LikesCount  int64  `json:"likes_count"`
	}
	api.decode(env, &items)
	require.Len(t, items, 1)
	assert.Equal(t, post, items[0].ID)
	assert.Equal(t, "alice", items[0].ProfileName)

	w, env = api.do(http.MethodGet, "/api/v1/posts?hashtag=nomatch", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	api.decode(env, &items)
	assert.Empty(t, items)

	detail := fmt.Sprintf("/api/v1/posts/%d", post)
	w, env = api.do(http.MethodGet, detail, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var item struct {
		LikesCount int64 `json:"likes_count"`
	}
	api.decode(env, &item)
	assert.EqualValues(t, 0, item.LikesCount)

	w, _ = api.do(http.MethodPost, detail+"/like", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the like must evict the cached detail
	w, env = api.do(http.MethodGet, detail, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	api.decode(env, &item)
	assert.EqualValues(t, 1, item.LikesCount)

	w, _ = api.do(http.MethodPut, detail, bob, gin.H{"content": "bob was here"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = api.do(http.MethodDelete, detail, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = api.do(http.MethodGet, detail, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = api.do(http.MethodGet, detail+"/comments", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	api := newTestAPI(t)
	token, userID, _ := api.signup("alice")

	w, env := api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	api.decode(env, &me)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "alice@example.com", me.Email)

	w, _ = api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDuplicateRegistration(t *testing.T) {
	api := newTestAPI(t)
	api.signup("alice")

	w, _ := api.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "alice@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
