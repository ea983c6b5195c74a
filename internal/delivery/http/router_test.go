package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	delivery "github.com/gdugdh24/techmate-hunt/internal/delivery/http"
	"github.com/gdugdh24/techmate-hunt/internal/delivery/http/handler"
	"github.com/gdugdh24/techmate-hunt/internal/delivery/http/middleware"
	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/infrastructure/events"
	"github.com/gdugdh24/techmate-hunt/internal/infrastructure/scheduler"
	"github.com/gdugdh24/techmate-hunt/internal/repository/memory"
	redisrepo "github.com/gdugdh24/techmate-hunt/internal/repository/redis"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/auth"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/matchmaking"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/participant"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/question"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@techmate.com"
	allowedOrigin = "https://hunt.techmate.com"
)

type testApp struct {
	engine *gin.Engine
	store  *memory.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, delivery.RegisterValidators())

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	sched := scheduler.NewRedisScheduler(client, time.Second, log)
	bus := events.NewRedisBus(client, log)

	matchUC := matchmaking.NewMatchUseCase(store, sched, bus, matchmaking.Config{
		Delay:      30 * time.Minute,
		MaxRetries: 3,
	}, log)
	participantUC := participant.NewParticipantUseCase(store, matchUC, log)
	questionUC := question.NewQuestionUseCase(store, nil, log)
	authUC := auth.NewAuthUseCase(
		store,
		redisrepo.NewSessionRepository(client),
		matchUC,
		"0123456789abcdef0123456789abcdef",
		time.Hour,
		[]string{adminEmail},
		log,
	)

	router := delivery.NewRouter(
		handler.NewAuthHandler(authUC),
		handler.NewMatchHandler(matchUC, participantUC),
		handler.NewAdminHandler(matchUC, participantUC, authUC),
		handler.NewQuestionHandler(questionUC),
		handler.NewEventsHandler(authUC, bus, []string{allowedOrigin}, log),
		middleware.NewAuthMiddleware(authUC),
	)
	return &testApp{engine: router.Setup(), store: store}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) signUp(t *testing.T, email, username string, delay bool) auth.AuthResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":         email,
		"password":      "secret123",
		"username":      username,
		"delayMatching": delay,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp auth.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodHead, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignUpValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "alice@example.com", "password": "secret123", "username": "alice", "techStack": "gamedev",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "not-an-email", "password": "secret123", "username": "x1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	app.signUp(t, "alice@example.com", "alice", false)
	w = app.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "alice@example.com", "password": "secret123", "username": "alice2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.ErrEmailTaken.Error(), decode[handler.ErrorResponse](t, w).Error)
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/match/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = app.do(t, http.MethodGet, "/api/v1/match/status", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	user := app.signUp(t, "alice@example.com", "alice", false)
	w = app.do(t, http.MethodGet, "/api/v1/admin/users", user.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/auth/signout", user.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodGet, "/api/v1/auth/me", user.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMatchVerifyAndResetFlow(t *testing.T) {
	app := newTestApp(t)
	admin := app.signUp(t, adminEmail, "admin", true)
	alice := app.signUp(t, "alice@example.com", "alice", false)
	bob := app.signUp(t, "bob@example.com", "bob", false)

	me := decode[map[string]interface{}](t, app.do(t, http.MethodGet, "/api/v1/auth/me", admin.Token, nil))
	assert.Equal(t, true, me["isAdmin"])

	// bob registered while alice was waiting, so they were paired at signup
	status := decode[participant.MatchStatus](t, app.do(t, http.MethodGet, "/api/v1/match/status", alice.Token, nil))
	require.NotNil(t, status.Participant.PartnerID)
	assert.Equal(t, bob.Participant.ID, *status.Participant.PartnerID)
	assert.Equal(t, domain.StatusPendingVerification, status.Participant.Status)
	assert.Nil(t, status.PartnerName)

	w := app.do(t, http.MethodPost, "/api/v1/match/verify", alice.Token, gin.H{"code": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.ErrInvalidCode.Error(), decode[handler.ErrorResponse](t, w).Error)

	w = app.do(t, http.MethodPost, "/api/v1/match/verify", alice.Token, gin.H{"code": bob.Participant.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/v1/match/verify", bob.Token, gin.H{"code": alice.Participant.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	status = decode[participant.MatchStatus](t, app.do(t, http.MethodGet, "/api/v1/match/status", bob.Token, nil))
	require.NotNil(t, status.PartnerName)
	assert.Equal(t, "alice", *status.PartnerName)
	assert.True(t, status.Participant.Matched)

	w = app.do(t, http.MethodPost, "/api/v1/admin/users/"+alice.Participant.ID+"/reset", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	users := decode[[]domain.Participant](t, app.do(t, http.MethodGet, "/api/v1/admin/users?status=waiting", admin.Token, nil))
	assert.Len(t, users, 2)

	w = app.do(t, http.MethodGet, "/api/v1/admin/users?status=bogus", admin.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/match/attempt", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	attempt := decode[handler.AttemptMatchResponse](t, w)
	assert.True(t, attempt.Matched)

	w = app.do(t, http.MethodPost, "/api/v1/admin/users/nobody/reset", admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestManualMatchAndDelete(t *testing.T) {
	app := newTestApp(t)
	admin := app.signUp(t, adminEmail, "admin", true)
	carol := app.signUp(t, "carol@example.com", "carol", true)
	dave := app.signUp(t, "dave@example.com", "dave", true)

	w := app.do(t, http.MethodPost, "/api/v1/admin/matches", admin.Token, gin.H{
		"user1Id": carol.Participant.ID, "user2Id": carol.Participant.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/admin/matches", admin.Token, gin.H{
		"user1Id": carol.Participant.ID, "user2Id": dave.Participant.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	match := decode[domain.Match](t, w)
	assert.Equal(t, domain.MatchStatusPendingVerification, match.Status)

	w = app.do(t, http.MethodPost, "/api/v1/admin/matches", admin.Token, gin.H{
		"user1Id": carol.Participant.ID, "user2Id": admin.Participant.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodDelete, "/api/v1/admin/users/"+carol.Participant.ID, admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/v1/match/status", carol.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	daveNow, err := app.store.Participants().GetByID(context.Background(), dave.Participant.ID)
	require.NoError(t, err)
	assert.Nil(t, daveNow.PartnerID)

	report := decode[matchmaking.ReconcileReport](t, app.do(t, http.MethodPost, "/api/v1/admin/reconcile?repair=true", admin.Token, nil))
	assert.Empty(t, report.Inconsistencies)

	w = app.do(t, http.MethodPost, "/api/v1/admin/reconcile?repair=maybe", admin.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuestionAdmin(t *testing.T) {
	app := newTestApp(t)
	admin := app.signUp(t, adminEmail, "admin", true)

	w := app.do(t, http.MethodPost, "/api/v1/admin/questions", admin.Token, gin.H{"question": "What is 2+2?"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/admin/questions", admin.Token, gin.H{
		"question": "What is 2+2?", "answer": "4",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "no hints and no generator")

	w = app.do(t, http.MethodPost, "/api/v1/admin/questions", admin.Token, gin.H{
		"question": "Which HTTP verb is idempotent and removes a resource?", "answer": "DELETE",
		"hints": []string{"Not POST"}, "techStack": "backend",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	q := decode[domain.Question](t, w)

	list := decode[[]domain.Question](t, app.do(t, http.MethodGet, "/api/v1/admin/questions", admin.Token, nil))
	require.Len(t, list, 1)

	w = app.do(t, http.MethodDelete, "/api/v1/admin/questions/"+q.ID, admin.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodDelete, "/api/v1/admin/questions/"+q.ID, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventStream(t *testing.T) {
	app := newTestApp(t)
	admin := app.signUp(t, adminEmail, "admin", true)
	erin := app.signUp(t, "erin@example.com", "erin", true)

	server := httptest.NewServer(app.engine)
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/events"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bad", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+erin.Token, nil)
	require.NoError(t, err)
	defer conn.Close()

	w := app.do(t, http.MethodPost, "/api/v1/admin/users/"+erin.Participant.ID+"/reset", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var event domain.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, domain.EventReset, event.Type)
	assert.Equal(t, erin.Participant.ID, event.ParticipantID)
}

func TestEventStreamOrigin(t *testing.T) {
	app := newTestApp(t)
	erin := app.signUp(t, "erin@example.com", "erin", true)

	server := httptest.NewServer(app.engine)
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/events?token=" + erin.Token

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://evil.example.com"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {allowedOrigin}})
	require.NoError(t, err)
	conn.Close()
}
