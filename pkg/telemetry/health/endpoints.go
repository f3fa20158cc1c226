package health

import (
	"encoding/json"
	"net/http"

	"github.com/CubeSugarZhang/webpack/pkg/config"
)

// LivenessHandler serves the liveness probe. It always answers 200 while the
// process is running.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowedMethod(w, r) {
			return
		}
		writeStatus(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler serves the readiness probe: 200 when every registered
// check passes, 503 otherwise.
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "schema": {"status": "ok", "duration_ms": 0.01},
//	        "watcher": {"status": "unhealthy", "message": "watcher not started", "duration_ms": 0.01}
//	    },
//	    "timestamp": "2026-10-18T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowedMethod(w, r) {
			return
		}
		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if !status.Ready() {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, r, code, status)
	}
}

// Register mounts the liveness and readiness handlers on mux at the paths
// from cfg. It does nothing when health endpoints are disabled.
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, cfg.Telemetry.Health)
func Register(mux *http.ServeMux, checker *Checker, cfg config.HealthConfig) {
	if !cfg.Enabled {
		return
	}
	liveness := cfg.LivenessPath
	if liveness == "" {
		liveness = config.DefaultLivenessPath
	}
	readiness := cfg.ReadinessPath
	if readiness == "" {
		readiness = config.DefaultReadinessPath
	}

	mux.HandleFunc(liveness, checker.LivenessHandler())
	mux.HandleFunc(readiness, checker.ReadinessHandler())
}

func allowedMethod(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeStatus(w http.ResponseWriter, r *http.Request, code int, status Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(status)
	}
}
