// Package testutils builds a fully wired fiber app on an in-memory database
// for handler tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/splitpay/infra/eventbus"
	infrarepo "github.com/amirasaad/splitpay/infra/repository"
	"github.com/amirasaad/splitpay/pkg/app"
	"github.com/amirasaad/splitpay/pkg/config"
	"github.com/amirasaad/splitpay/pkg/telemetry"
	"github.com/amirasaad/splitpay/pkg/testutils"
	"github.com/amirasaad/splitpay/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Env is a running test application.
type Env struct {
	App    *fiber.App
	DB     *gorm.DB
	Bus    *infraeventbus.MemoryEventBus
	Deps   *app.Deps
	Svc    *app.App
	Config *config.App
}

// Config returns the configuration used by SetupTestApp.
func Config() *config.App {
	return &config.App{
		Env:       "test",
		Auth:      &config.Auth{Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Transfer:  &config.Transfer{BatchSize: 4, Timeout: 5 * time.Second},
	}
}

// SetupTestApp wires the application on a fresh database. mutate may adjust
// the configuration first.
func SetupTestApp(t *testing.T, mutate ...func(*config.App)) *Env {
	t.Helper()
	cfg := Config()
	for _, m := range mutate {
		m(cfg)
	}
	db := testutils.NewSQLiteDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infraeventbus.NewWithMemory(logger, infraeventbus.WithRecording())
	deps := &app.Deps{
		Uow:      infrarepo.NewUoW(db),
		EventBus: bus,
		Metrics:  telemetry.NewMetrics(prometheus.NewRegistry()),
		Logger:   logger,
	}
	a := app.New(deps, cfg)
	return &Env{App: webapi.SetupApp(a), DB: db, Bus: bus, Deps: deps, Svc: a, Config: cfg}
}

// MakeRequest sends a request with an optional JSON body and bearer token.
func MakeRequest(t *testing.T, app *fiber.App, method, path, body, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// Decode reads the JSON body of resp into a value of type T.
func Decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Login returns a token for username.
func Login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)
	resp := MakeRequest(t, app, http.MethodPost, "/login", string(body), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := Decode[struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}](t, resp)
	require.NotEmpty(t, out.Data.Token)
	return out.Data.Token
}
