//go:build integration

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"anoa.com/qaforum/internal/config"
	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/internal/testutil"
	"anoa.com/qaforum/pkg/metrics"
)

const testSecret = "integration-secret"

var (
	testDB    *gorm.DB
	testRedis *redis.Client
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, stopPG, err := testutil.StartPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres: %v\n", err)
		os.Exit(1)
	}
	rdb, stopRedis, err := testutil.StartRedis(ctx)
	if err != nil {
		stopPG()
		fmt.Fprintf(os.Stderr, "failed to start redis: %v\n", err)
		os.Exit(1)
	}
	testDB, testRedis = db, rdb

	code := m.Run()
	stopRedis()
	stopPG()
	os.Exit(code)
}

type client struct {
	t      *testing.T
	h      http.Handler
	bearer string
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	require.NoError(t, testutil.Truncate(testDB))
	require.NoError(t, testRedis.FlushDB(context.Background()).Err())

	cfg := &config.Config{AppEnv: "test", Port: "0", JWTSecret: testSecret, VoteTallyTTL: time.Minute}
	srv := NewServer(cfg, Deps{
		DB:          testDB,
		RedisClient: testRedis,
		Registry:    metrics.NewRegistry(),
		Clock:       clockwork.NewRealClock(),
		Logger:      zap.NewNop(),
	})
	return srv.Handler()
}

func as(t *testing.T, h http.Handler, user *entity.User) *client {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return &client{t: t, h: h, bearer: "Bearer " + signed}
}

func (c *client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", c.bearer)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func TestVoteAndNotificationScenario(t *testing.T) {
	h := newServer(t)
	alice := testutil.SeedUser(t, testDB, "alice")
	bob := testutil.SeedUser(t, testDB, "bob")
	a, b := as(t, h, alice), as(t, h, bob)

	// Bob asks, Alice answers: Bob is notified twice (question posted, answer received).
	code, question := b.do(http.MethodPost, "/api/questions", map[string]any{"title": "Why nil?", "content": "help"})
	require.Equal(t, http.StatusCreated, code)
	slug := question["slug"].(string)

	code, answer := a.do(http.MethodPost, "/api/questions/"+slug+"/answers", map[string]any{"content": "because"})
	require.Equal(t, http.StatusCreated, code)
	answerID := answer["id"].(string)

	tally := func() map[string]any {
		_, body := a.do(http.MethodGet, "/api/votes/tally/answer/"+answerID, nil)
		return body
	}
	cast := func(value int) {
		code, body := a.do(http.MethodPost, "/api/votes", map[string]any{"target_id": answerID, "target_kind": "answer", "value": value})
		require.Equal(t, http.StatusOK, code, body)
	}

	cast(1)
	assert.EqualValues(t, 1, tally()["up"])
	cast(0)
	assert.EqualValues(t, 0, tally()["up"], "cache invalidated on delete")
	cast(-1)
	got := tally()
	assert.EqualValues(t, 1, got["down"])
	assert.EqualValues(t, -1, got["score"])

	var rows int64
	require.NoError(t, testDB.Model(&entity.Vote{}).Where("voter_id = ?", alice.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	_, mine := a.do(http.MethodGet, "/api/votes/mine?parent_kind=question&slug="+slug, nil)
	data := mine["data"].([]any)
	require.Len(t, data, 1)
	assert.EqualValues(t, -1, data[0].(map[string]any)["value"])

	_, list := b.do(http.MethodGet, "/api/notifications", nil)
	require.Len(t, list["data"].([]any), 2)

	code, _ = b.do(http.MethodDelete, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, code)
	_, list = b.do(http.MethodGet, "/api/notifications", nil)
	assert.Empty(t, list["data"])

	// Clearing notifications never touches votes.
	require.NoError(t, testDB.Model(&entity.Vote{}).Where("voter_id = ?", alice.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestEmitEndpoint(t *testing.T) {
	h := newServer(t)
	alice := testutil.SeedUser(t, testDB, "alice")
	bob := testutil.SeedUser(t, testDB, "bob")
	post := testutil.SeedPost(t, testDB, bob, "Go tips", "go-tips-abc123")
	a := as(t, h, alice)

	code, body := a.do(http.MethodPost, "/api/notifications", map[string]any{"event_kind": "comment_received", "related_id": post.ID.String()})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Someone has commented on your post: Go tips", body["message"])

	var n entity.Notification
	require.NoError(t, testDB.Where("recipient_id = ?", bob.ID).First(&n).Error)
	assert.Equal(t, post.Slug, n.RelatedSlug)

	code, body = a.do(http.MethodPost, "/api/notifications", map[string]any{"event_kind": "answer_received", "related_id": uuid.NewString()})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Someone has answered your question: ", body["message"])

	var fallback entity.Notification
	require.NoError(t, testDB.Where("recipient_id = ?", alice.ID).First(&fallback).Error)
	assert.Equal(t, entity.EventAnswerReceived, fallback.EventKind)
	assert.Empty(t, fallback.RelatedSlug)

	code, _ = a.do(http.MethodPost, "/api/notifications", map[string]any{"event_kind": "vote_received", "related_id": post.ID.String()})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuthAndHealth(t *testing.T) {
	h := newServer(t)
	anon := &client{t: t, h: h}

	code, _ := anon.do(http.MethodPost, "/api/votes", map[string]any{"value": 1})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := anon.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}
