package api_test

import (
	"Agora/internal/api/config"
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/database"
	"Agora/internal/pkg/security"
	"Agora/internal/wire"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewGormDB(&config.DBConfig{
		Driver:  database.DriverSQLite,
		DSN:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxIdle: 1,
		MaxOpen: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, db.Create(&model.User{ID: 1, Email: "alice@agora.dev", Nickname: "alice"}).Error)
	require.NoError(t, db.Create(&model.User{ID: 2, Email: "bob@agora.dev", Nickname: "bob"}).Error)

	app := wire.BuildApplication(db, nil)
	return &testServer{router: app.Router}
}

func (s *testServer) do(t *testing.T, method, path string, userID uint64, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := security.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) createPost(t *testing.T, userID uint64, title string, tags []string) *dto.PostDTO {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/api/posts", userID, map[string]any{
		"title":   title,
		"content": "body of " + title,
		"tags":    tags,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	require.Equal(t, "post_created", env.Message)

	var post dto.PostDTO
	require.NoError(t, json.Unmarshal(env.Data, &post))
	return &post
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodGet, "/api/ping", 0, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", env.Message)
}

func TestListPosts_EmptyFeed(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/api/posts", 0, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "read_posts_success", env.Message)

	var page dto.PostPageDTO
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, int64(0), page.Total)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.JSONEq(t, `{"page":1,"limit":10,"total":0,"items":[]}`, string(env.Data))
}

func TestListPosts_BadQuery(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		query string
		msg   string
	}{
		{"sort=bogus", "invalid_sort"},
		{"page=0", "invalid_paging_params"},
		{"limit=51", "invalid_paging_params"},
		{"page=abc", "invalid_paging_params"},
		{"tag=%23%23", "invalid_tag"},
	}
	for _, tc := range cases {
		code, env := s.do(t, http.MethodGet, "/api/posts?"+tc.query, 0, nil)
		assert.Equal(t, http.StatusBadRequest, code, tc.query)
		assert.Equal(t, tc.msg, env.Message, tc.query)
	}
}

func TestCreatePost(t *testing.T) {
	s := newTestServer(t)

	post := s.createPost(t, 1, "Hello Agora", []string{"Go", " go ", "web"})
	assert.NotZero(t, post.ID)
	assert.Equal(t, "Hello Agora", post.Title)
	assert.ElementsMatch(t, []string{"go", "web"}, post.Tags)
	assert.True(t, post.IsAuthor)
	assert.Equal(t, "alice", post.Author.Nickname)

	code, env := s.do(t, http.MethodPost, "/api/posts", 1, map[string]any{"title": "  ", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing_required_fields", env.Message)

	code, env = s.do(t, http.MethodPost, "/api/posts", 1, map[string]any{
		"title":   "t",
		"content": "c",
		"tags":    []string{"a", "b", "c", "d", "e", "f"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "too_many_tags", env.Message)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/posts", 0, map[string]any{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", env.Message)

	code, _ = s.do(t, http.MethodPost, "/api/posts/1/likes", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLikeFlow(t *testing.T) {
	s := newTestServer(t)
	post := s.createPost(t, 1, "likeable", nil)
	likePath := "/api/posts/" + strconv.FormatUint(post.ID, 10) + "/likes"

	code, env := s.do(t, http.MethodPost, likePath, 2, nil)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "like_created", env.Message)
	var state dto.LikeStateDTO
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, int64(1), state.LikesCount)

	code, env = s.do(t, http.MethodPost, likePath, 2, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "like_already_exists", env.Message)

	code, env = s.do(t, http.MethodDelete, likePath, 2, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "like_deleted", env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, int64(0), state.LikesCount)

	// 从未点赞过也返回成功
	code, env = s.do(t, http.MethodDelete, likePath, 1, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "like_deleted", env.Message)

	code, env = s.do(t, http.MethodPost, "/api/posts/999/likes", 2, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "post_not_found", env.Message)
}

func TestGetPost(t *testing.T) {
	s := newTestServer(t)
	post := s.createPost(t, 1, "viewed", []string{"news"})
	path := "/api/posts/" + strconv.FormatUint(post.ID, 10)

	code, env := s.do(t, http.MethodGet, path, 0, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "read_detail_success", env.Message)
	var got dto.PostDTO
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, int64(1), got.ViewCount)
	assert.False(t, got.IsAuthor)
	assert.False(t, got.IsLiked)

	code, env = s.do(t, http.MethodGet, path, 1, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, int64(2), got.ViewCount)
	assert.True(t, got.IsAuthor)

	code, env = s.do(t, http.MethodGet, "/api/posts/abc", 0, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_request_format", env.Message)

	code, env = s.do(t, http.MethodGet, "/api/posts/12345", 0, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "post_not_found", env.Message)
}

func TestUpdateAndDeletePost_Ownership(t *testing.T) {
	s := newTestServer(t)
	post := s.createPost(t, 1, "mine", []string{"go"})
	path := "/api/posts/" + strconv.FormatUint(post.ID, 10)

	code, env := s.do(t, http.MethodPut, path, 2, map[string]any{"title": "stolen", "content": "x"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "permission_denied", env.Message)

	code, env = s.do(t, http.MethodPut, path, 1, map[string]any{"title": "mine v2", "content": "x"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "post_updated", env.Message)
	var updated dto.PostDTO
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "mine v2", updated.Title)
	assert.Equal(t, []string{"go"}, updated.Tags)

	code, _ = s.do(t, http.MethodDelete, path, 2, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, http.MethodDelete, path, 1, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "post_deleted", env.Message)

	code, _ = s.do(t, http.MethodGet, path, 1, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTrending(t *testing.T) {
	s := newTestServer(t)
	s.createPost(t, 1, "first", []string{"go"})
	second := s.createPost(t, 2, "second", []string{"go", "db"})

	code, _ := s.do(t, http.MethodPost, "/api/posts/"+strconv.FormatUint(second.ID, 10)+"/likes", 1, nil)
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(t, http.MethodGet, "/api/posts/trending?days=7&limit=5", 0, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "read_trending_success", env.Message)

	var trending dto.TrendingDTO
	require.NoError(t, json.Unmarshal(env.Data, &trending))
	assert.Equal(t, 7, trending.Days)
	require.Len(t, trending.Posts, 2)
	assert.Equal(t, second.ID, trending.Posts[0].ID)
	require.NotNil(t, trending.Posts[0].Score)
	assert.InDelta(t, 3.0, *trending.Posts[0].Score, 1e-9)
	require.NotEmpty(t, trending.TopTags)
	assert.Equal(t, "go", trending.TopTags[0].Name)
	assert.Equal(t, int64(2), trending.TopTags[0].Count)

	code, env = s.do(t, http.MethodGet, "/api/posts/trending?days=31", 0, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_trending_params", env.Message)
}

func TestTraceHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Header().Get("X-Trace-ID"))

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "https://agora.dev")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://agora.dev", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
