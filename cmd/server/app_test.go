package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/phrazzld/todofast-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "debug",
			APIPrefix:              "/api/v1",
			ShutdownTimeoutSeconds: 2,
		},
		Database: config.DatabaseConfig{Driver: config.DriverMemory, Name: "todofast"},
		Auth: config.AuthConfig{
			JWTSecret:                   "test-access-secret-at-least-32-bytes!",
			JWTRefreshSecret:            "test-refresh-secret-at-least-32-bytes",
			TokenLifetimeMinutes:        60,
			RefreshTokenLifetimeMinutes: 60 * 24 * 7,
			BcryptCost:                  4,
		},
		RateLimit: config.RateLimitConfig{AuthRequestsPerMinute: 600, AuthBurst: 50},
		Telemetry: config.TelemetryConfig{ServiceName: "todofast-test"},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewApplication_MemoryDriver(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, config.Validate(cfg))

	app, err := newApplication(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	body, _ := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "secret",
	})
	resp, err := http.Post(srv.URL+"/api/v1/users/create", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.PostForm(srv.URL+"/api/v1/auth/login", url.Values{
		"username": {"alice@example.com"},
		"password": {"secret"},
	})
	require.NoError(t, err)
	var tokens struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bearer", tokens.TokenType)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/users/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	metricsBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(metricsBody), "go_goroutines")
	assert.Contains(t, string(metricsBody), "todofast_auth_attempts_total")
}

func TestNewApplication_Errors(t *testing.T) {
	_, err := newApplication(context.Background(), nil, testLogger())
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Database.Driver = "sqlite"
	_, err = newApplication(context.Background(), cfg, testLogger())
	assert.ErrorContains(t, err, `unsupported database driver "sqlite"`)

	cfg = testConfig()
	cfg.Auth.BcryptCost = 99
	_, err = newApplication(context.Background(), cfg, testLogger())
	assert.ErrorContains(t, err, "password hasher")
}

func TestApplication_CleanupIsIdempotent(t *testing.T) {
	app, err := newApplication(context.Background(), testConfig(), testLogger())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		app.cleanup()
		app.cleanup()
	})
}

func TestServe_ShutsDownWhenContextCancelled(t *testing.T) {
	app, err := newApplication(context.Background(), testConfig(), testLogger())
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.router) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunMigrations_UnsupportedDriver(t *testing.T) {
	err := runMigrations(context.Background(), testConfig(), "up", testLogger())
	assert.ErrorContains(t, err, "not supported")

	cfg := testConfig()
	cfg.Database.Driver = config.DriverMongo
	cfg.Database.URL = "mongodb://localhost:27017"
	err = runMigrations(context.Background(), cfg, "down", testLogger())
	assert.ErrorContains(t, err, "not supported by the mongo driver")
}

func TestRun_InvalidFlag(t *testing.T) {
	assert.Equal(t, 2, run([]string{"-no-such-flag"}))
}

func TestRun_InvalidConfiguration(t *testing.T) {
	t.Setenv("TODOFAST_AUTH_JWT_SECRET", "short")
	assert.Equal(t, 1, run(nil))
}
