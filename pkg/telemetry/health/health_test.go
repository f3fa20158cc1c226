package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{name: "default timeout", timeout: 0, expectedTimeout: DefaultCheckTimeout},
		{name: "negative timeout", timeout: -time.Second, expectedTimeout: DefaultCheckTimeout},
		{name: "custom timeout", timeout: 10 * time.Second, expectedTimeout: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.Checks()) != 0 {
				t.Errorf("expected no checks, got %v", checker.Checks())
			}
		})
	}
}

func TestRegisterCheck(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("watcher", func(context.Context) error { return nil })
	checker.RegisterCheck("schema", func(context.Context) error { return nil })

	got := checker.Checks()
	if len(got) != 2 || got[0] != "schema" || got[1] != "watcher" {
		t.Errorf("expected [schema watcher], got %v", got)
	}

	checker.UnregisterCheck("schema")
	if got := checker.Checks(); len(got) != 1 || got[0] != "watcher" {
		t.Errorf("expected [watcher], got %v", got)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		unhealthy  []string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"schema":  func(context.Context) error { return nil },
				"watcher": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"schema":  func(context.Context) error { return nil },
				"watcher": func(context.Context) error { return errors.New("watcher not started") },
			},
			wantStatus: StatusDegraded,
			unhealthy:  []string{"watcher"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, status.Status)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("expected %d results, got %d", len(tt.checks), len(status.Checks))
			}
			for _, name := range tt.unhealthy {
				if status.Checks[name].Status != StatusUnhealthy {
					t.Errorf("expected %s to be unhealthy, got %+v", name, status.Checks[name])
				}
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	status := checker.CheckReadiness(context.Background())
	result := status.Checks["slow"]
	if result.Status != StatusUnhealthy || result.Message != ErrCheckTimeout.Error() {
		t.Errorf("expected timeout result, got %+v", result)
	}
}

func TestCondition(t *testing.T) {
	cond := NewCondition("schema not loaded")

	if err := cond.Check(context.Background()); err == nil || err.Error() != "schema not loaded" {
		t.Errorf("expected initial reason, got %v", err)
	}

	cond.Set(nil)
	if err := cond.Check(context.Background()); err != nil {
		t.Errorf("expected healthy condition, got %v", err)
	}

	cond.Set(errors.New("schema file removed"))
	if err := cond.Check(context.Background()); err == nil {
		t.Error("expected unhealthy condition after Set(err)")
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("broken", func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	checker.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Status != StatusOK {
		t.Errorf("expected status ok, got %q", status.Status)
	}
}

func TestReadinessHandler(t *testing.T) {
	cond := NewCondition("watcher not started")
	checker := New(time.Second)
	checker.RegisterCheck("watcher", cond.Check)

	tests := []struct {
		name     string
		method   string
		setup    func()
		wantCode int
		wantBody bool
	}{
		{name: "not ready", method: http.MethodGet, wantCode: http.StatusServiceUnavailable, wantBody: true},
		{name: "ready", method: http.MethodGet, setup: func() { cond.Set(nil) }, wantCode: http.StatusOK, wantBody: true},
		{name: "head has no body", method: http.MethodHead, wantCode: http.StatusOK},
		{name: "post rejected", method: http.MethodPost, wantCode: http.StatusMethodNotAllowed, wantBody: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			rec := httptest.NewRecorder()
			checker.ReadinessHandler()(rec, httptest.NewRequest(tt.method, "/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if got := rec.Body.Len() > 0; got != tt.wantBody {
				t.Errorf("expected body=%v, got %q", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRegister(t *testing.T) {
	checker := New(time.Second)

	t.Run("disabled", func(t *testing.T) {
		mux := http.NewServeMux()
		Register(mux, checker, config.HealthConfig{Enabled: false})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.DefaultLivenessPath, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 when disabled, got %d", rec.Code)
		}
	})

	t.Run("custom paths", func(t *testing.T) {
		mux := http.NewServeMux()
		Register(mux, checker, config.HealthConfig{Enabled: true, LivenessPath: "/livez", ReadinessPath: "/readyz"})

		for _, path := range []string{"/livez", "/readyz"} {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", path, rec.Code)
			}
		}
	})

	t.Run("default paths", func(t *testing.T) {
		mux := http.NewServeMux()
		Register(mux, checker, config.HealthConfig{Enabled: true})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.DefaultReadinessPath, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}
