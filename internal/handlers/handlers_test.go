package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/checkin-backend/internal/config"
	"github.com/studypulse/checkin-backend/internal/handlers"
	"github.com/studypulse/checkin-backend/internal/models"
	"github.com/studypulse/checkin-backend/internal/routes"
	"github.com/studypulse/checkin-backend/internal/services"
)

const testSecret = "test-secret-with-enough-length"

// memoryLedger is a minimal in-memory ledger store; failing turns every call into an error.
type memoryLedger struct {
	mu       sync.Mutex
	points   map[string]int
	days     map[string]map[string]bool
	profiles map[string]*models.Profile
	failing  bool
	calls    int
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		points:   make(map[string]int),
		days:     make(map[string]map[string]bool),
		profiles: make(map[string]*models.Profile),
	}
}

var errStoreDown = errors.New("dial tcp: connection refused")

func (m *memoryLedger) snapshot(userID string, day time.Time) models.LedgerSnapshot {
	return models.LedgerSnapshot{
		CheckedInToday: m.days[userID][services.FormatDay(day)],
		TotalDays:      int64(len(m.days[userID])),
		Points:         int64(m.points[userID]),
	}
}

func (m *memoryLedger) Status(_ context.Context, userID string, day time.Time) (*models.LedgerSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failing {
		return nil, errStoreDown
	}
	snap := m.snapshot(userID, day)
	return &snap, nil
}

func (m *memoryLedger) CheckIn(_ context.Context, userID string, day time.Time, reward int) (*models.CheckinResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failing {
		return nil, errStoreDown
	}
	if m.days[userID] == nil {
		m.days[userID] = make(map[string]bool)
	}
	key := services.FormatDay(day)
	inserted := !m.days[userID][key]
	if inserted {
		m.days[userID][key] = true
		m.points[userID] += reward
	}
	return &models.CheckinResult{Inserted: inserted, LedgerSnapshot: m.snapshot(userID, day)}, nil
}

func (m *memoryLedger) UpsertProfile(_ context.Context, userID string, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failing {
		return errStoreDown
	}
	m.profiles[userID] = profile
	return nil
}

func (m *memoryLedger) Ping(context.Context) error {
	if m.failing {
		return errStoreDown
	}
	return nil
}

func newTestApp(t *testing.T, store *memoryLedger, now func() time.Time) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		AuthSecret:         testSecret,
		RequestTimeout:     5 * time.Second,
		RateLimitPerMinute: 1000,
	}

	days, err := services.NewDayResolver("Europe/London", now)
	require.NoError(t, err)

	app := fiber.New()
	routes.Setup(app, cfg, nil,
		handlers.NewCheckinHandler(services.NewCheckinService(store, days, 10)),
		handlers.NewUserHandler(services.NewUserService(store, nil)),
		handlers.NewHealthHandler(store),
	)
	return app
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, userID string) string {
	return signToken(t, jwt.MapClaims{
		"sub": userID,
		"sid": "sess_" + userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestCheckinEndpoints_DailyScenario(t *testing.T) {
	now := time.Date(2026, 1, 27, 12, 0, 0, 0, time.UTC)
	app := newTestApp(t, newMemoryLedger(), func() time.Time { return now })
	token := userToken(t, "user_u")

	code, body := doRequest(t, app, http.MethodGet, "/checkins/status", token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{
		"ok": true, "today": "2026-01-27", "checkedInToday": false, "totalDays": float64(0), "points": float64(0),
	}, body)

	code, body = doRequest(t, app, http.MethodPost, "/checkins/today", token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{
		"ok": true, "today": "2026-01-27", "checkedInToday": true, "gainedPoints": float64(10), "totalDays": float64(1), "points": float64(10),
	}, body)

	code, body = doRequest(t, app, http.MethodPost, "/checkins/today", token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["gainedPoints"])
	assert.Equal(t, float64(1), body["totalDays"])
	assert.Equal(t, float64(10), body["points"])

	now = now.Add(24 * time.Hour)

	code, body = doRequest(t, app, http.MethodGet, "/checkins/status", token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2026-01-28", body["today"])
	assert.Equal(t, false, body["checkedInToday"])
	assert.Equal(t, float64(1), body["totalDays"])
	assert.Equal(t, float64(10), body["points"])
}

func TestProtectedEndpoints_RejectMissingOrBadIdentity(t *testing.T) {
	store := newMemoryLedger()
	app := newTestApp(t, store, time.Now)

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user_x"}).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "not-a-jwt"},
		{"wrong signing key", wrongKey},
		{"expired token", signToken(t, jwt.MapClaims{"sub": "user_x", "exp": time.Now().Add(-time.Minute).Unix()})},
		{"missing subject", signToken(t, jwt.MapClaims{"sid": "sess_1", "exp": time.Now().Add(time.Hour).Unix()})},
	}

	endpoints := []struct{ method, path string }{
		{http.MethodGet, "/checkins/status"},
		{http.MethodPost, "/checkins/today"},
		{http.MethodPost, "/users/sync"},
	}

	for _, tt := range tests {
		for _, ep := range endpoints {
			t.Run(tt.name+" "+ep.method+" "+ep.path, func(t *testing.T) {
				code, body := doRequest(t, app, ep.method, ep.path, tt.token)
				assert.Equal(t, http.StatusUnauthorized, code)
				assert.Equal(t, map[string]interface{}{"error": "Unauthenticated"}, body)
			})
		}
	}

	assert.Zero(t, store.calls, "store must not be touched without identity")
}

func TestCheckinEndpoints_StoreFailure(t *testing.T) {
	store := newMemoryLedger()
	store.failing = true
	app := newTestApp(t, store, time.Now)
	token := userToken(t, "user_f")

	for _, ep := range []struct{ method, path string }{
		{http.MethodGet, "/checkins/status"},
		{http.MethodPost, "/checkins/today"},
		{http.MethodPost, "/users/sync"},
	} {
		code, body := doRequest(t, app, ep.method, ep.path, token)
		assert.Equal(t, http.StatusInternalServerError, code, ep.path)
		assert.Equal(t, map[string]interface{}{"error": "Internal server error"}, body, ep.path)
	}
}

func TestUserSync(t *testing.T) {
	store := newMemoryLedger()
	app := newTestApp(t, store, time.Now)

	code, body := doRequest(t, app, http.MethodPost, "/users/sync", userToken(t, "user_s"))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"ok": true, "userId": "user_s", "sessionId": "sess_user_s"}, body)
	_, synced := store.profiles["user_s"]
	assert.True(t, synced)
}

func TestHealth(t *testing.T) {
	store := newMemoryLedger()
	app := newTestApp(t, store, time.Now)

	code, body := doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"ok": true}, body)

	store.failing = true
	code, body = doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "DB not reachable", body["error"])
}
