package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const serviceName = "media-analysis-api"

func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Service string `json:"service"`
			Version string `json:"version"`
			Docs    string `json:"docs"`
		}{Service: serviceName, Version: "v1", Docs: "/api/v1"})
	}
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
		}{Status: "ok"})
	}
}

// healthDetailedHandler pings each wired dependency with a short deadline.
// Any failure flips the overall status and the response code to 503.
func healthDetailedHandler(db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				checks["postgres"] = "down"
				healthy = false
			} else {
				checks["postgres"] = "up"
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				checks["redis"] = "down"
				healthy = false
			} else {
				checks["redis"] = "up"
			}
		}

		status := http.StatusOK
		overall := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}
		writeJSON(w, status, struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}{Status: overall, Checks: checks})
	}
}

// loginHandler checks the configured admin credentials and mints the admin
// session JWT. Disabled deployments (nil auth) answer 404 so the endpoint
// does not advertise itself.
func loginHandler(auth *AuthManager, adminUser, adminPass string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Username != adminUser || req.Password != adminPass || adminUser == "" {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		token, err := auth.Mint(w)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Token string `json:"token"`
		}{Token: token})
	}
}
