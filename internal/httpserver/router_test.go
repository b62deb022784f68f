package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/httpserver"
	"messenger/internal/security"
	"messenger/internal/store/sqlite"
)

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))

	cfg := &config.Config{
		CORSOrigins:    []string{"http://localhost:3000"},
		PageSize:       10,
		RequestTimeout: 10 * time.Second,
	}
	router := httpserver.NewRouter(cfg, zaptest.NewLogger(t), sqlite.NewStore(db),
		security.NewTokenService("test-secret", time.Hour),
		security.NewPasswordHasher(bcrypt.MinCost))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.server.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func register(t *testing.T, srv *httptest.Server, login string) *client {
	t.Helper()
	c := &client{t: t, server: srv}
	var tok struct {
		AccessToken string       `json:"access_token"`
		User        *domain.User `json:"user"`
	}
	status := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"login":    login,
		"password": login + "-pw",
	}, &tok)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, tok.AccessToken)
	c.token = tok.AccessToken
	return c
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	c := &client{t: t, server: srv}
	var body map[string]string
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestAuthFlow(t *testing.T) {
	srv := newServer(t)
	alice := register(t, srv, "alice")

	anon := &client{t: t, server: srv}
	assert.Equal(t, http.StatusConflict, anon.do(http.MethodPost, "/api/auth/register",
		map[string]string{"login": "alice", "password": "x"}, nil))
	assert.Equal(t, http.StatusBadRequest, anon.do(http.MethodPost, "/api/auth/register",
		map[string]string{"login": " ", "password": "x"}, nil))
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/auth/login",
		map[string]string{"login": "alice", "password": "wrong"}, nil))
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/auth/me", nil, nil))

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.Equal(t, http.StatusOK, anon.do(http.MethodPost, "/api/auth/login",
		map[string]string{"login": "alice", "password": "alice-pw"}, &tok))
	assert.NotEmpty(t, tok.AccessToken)

	var me domain.User
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/api/auth/me", nil, &me))
	assert.Equal(t, "alice", me.Login)
	assert.Empty(t, me.Password)

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, "/api/auth/me", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, alice.do(http.MethodGet, "/api/auth/me", nil, nil))
}

func TestListEndpoints(t *testing.T) {
	srv := newServer(t)
	alice := register(t, srv, "alice")
	register(t, srv, "bob")

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodPost, "/api/lists/contact", map[string]string{"login": "bob"}, nil))
	assert.Equal(t, http.StatusConflict, alice.do(http.MethodPost, "/api/lists/contact", map[string]string{"login": "bob"}, nil))
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodPost, "/api/lists/block", map[string]string{"login": "ghost"}, nil))
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, "/api/lists/friends", nil, nil))

	var list struct {
		Kind    string   `json:"kind"`
		Members []string `json:"members"`
	}
	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/api/lists/contact", nil, &list))
	assert.Equal(t, []string{"bob"}, list.Members)

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, "/api/lists/contact/bob", nil, nil))
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodDelete, "/api/lists/contact/bob", nil, nil))

	require.Equal(t, http.StatusOK, alice.do(http.MethodGet, "/api/lists/contact", nil, &list))
	assert.Empty(t, list.Members)
}

func TestChatAndMessageEndpoints(t *testing.T) {
	srv := newServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")
	carol := register(t, srv, "carol")

	var chat domain.ChatSummary
	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/api/chats",
		map[string][]string{"members": {"bob"}}, &chat))
	assert.Equal(t, domain.ChatPrivate, chat.Type)
	base := fmt.Sprintf("/api/chats/%d", chat.ID)

	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodPost, "/api/chats",
		map[string][]string{"members": {}}, nil))
	assert.Equal(t, http.StatusForbidden, carol.do(http.MethodGet, base, nil, nil))
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPost, base+"/members", map[string]string{"login": "carol"}, nil))
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, "/api/chats/999", nil, nil))
	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodGet, "/api/chats/abc", nil, nil))

	var hi domain.Message
	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, base+"/messages", map[string]string{"text": "hi"}, &hi))
	assert.Equal(t, http.StatusForbidden, carol.do(http.MethodPost, base+"/messages", map[string]string{"text": "me too"}, nil))
	assert.Equal(t, http.StatusBadRequest, bob.do(http.MethodPost, base+"/messages", map[string]string{"text": "  "}, nil))

	msgPath := fmt.Sprintf("%s/messages/%d", base, hi.ID)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPut, msgPath, map[string]string{"text": "x"}, nil))
	var edited domain.Message
	require.Equal(t, http.StatusOK, alice.do(http.MethodPut, msgPath, map[string]string{"text": "hello"}, &edited))
	assert.Equal(t, "hello", edited.Text)
	assert.NotNil(t, edited.EditedAt)

	var chats []domain.ChatSummary
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/api/chats", nil, &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, []string{"alice", "bob"}, chats[0].Members)

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodPost, base+"/members", map[string]string{"login": "carol"}, nil))
	assert.Equal(t, http.StatusConflict, alice.do(http.MethodPost, base+"/members", map[string]string{"login": "carol"}, nil))
	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, base+"/members/carol", nil, nil))
	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodDelete, base+"/members/alice", nil, nil))

	assert.Equal(t, http.StatusConflict, bob.do(http.MethodDelete, "/api/auth/me", nil, nil))

	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodDelete, base, nil, nil))
	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, base, nil, nil))
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, base, nil, nil))
}

func TestMessagePaging(t *testing.T) {
	srv := newServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")

	var chat domain.ChatSummary
	require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/api/chats",
		map[string][]string{"members": {"bob"}}, &chat))
	base := fmt.Sprintf("/api/chats/%d/messages", chat.ID)

	for i := range 25 {
		require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, base,
			map[string]string{"text": fmt.Sprintf("message %02d", i+1)}, nil))
	}

	type page struct {
		Messages   []domain.Message `json:"messages"`
		NextCursor string           `json:"next_cursor"`
		HasMore    bool             `json:"has_more"`
		Total      int              `json:"total"`
	}

	var seen []string
	path := base
	for {
		var p page
		require.Equal(t, http.StatusOK, bob.do(http.MethodGet, path, nil, &p))
		assert.Equal(t, 25, p.Total)
		for _, m := range p.Messages {
			seen = append(seen, m.Text)
		}
		if !p.HasMore {
			assert.Empty(t, p.NextCursor)
			assert.Len(t, p.Messages, 5)
			break
		}
		assert.Len(t, p.Messages, 10)
		path = base + "?cursor=" + p.NextCursor
	}
	require.Len(t, seen, 25)
	assert.Equal(t, "message 01", seen[0])
	assert.Equal(t, "message 25", seen[24])

	var first page
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, base+"?page_size=20", nil, &first))
	assert.Len(t, first.Messages, 20)
	require.True(t, first.HasMore)

	require.Equal(t, http.StatusCreated, bob.do(http.MethodPost, base, map[string]string{"text": "late"}, nil))
	assert.Equal(t, http.StatusConflict, bob.do(http.MethodGet, base+"?cursor="+first.NextCursor, nil, nil))
	assert.Equal(t, http.StatusBadRequest, bob.do(http.MethodGet, base+"?page_size=0", nil, nil))
}
