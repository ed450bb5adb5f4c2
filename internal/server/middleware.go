package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type contextKey int

const userInfoKey contextKey = iota

// UserInfo identifies the requesting user.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// Identity resolves the requesting user: the tailnet identity when tsnet is
// active, otherwise the X-User-ID header, otherwise a fixed dev user.
func (s *Server) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := UserInfo{Login: "default", DisplayName: "Local Dev User"}

		if s.lc != nil {
			if who, err := s.lc.WhoIs(r.Context(), r.RemoteAddr); err == nil && who.UserProfile != nil {
				info = UserInfo{
					Login:       who.UserProfile.LoginName,
					DisplayName: who.UserProfile.DisplayName,
				}
			}
		} else if uid := r.Header.Get("X-User-ID"); uid != "" {
			info = UserInfo{Login: uid, DisplayName: uid}
		}

		ctx := context.WithValue(r.Context(), userInfoKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the id the request's data is namespaced under.
func userID(r *http.Request) string {
	if info, ok := r.Context().Value(userInfoKey).(UserInfo); ok && info.Login != "" {
		return info.Login
	}
	return "default"
}

// APIKeyAuth returns middleware that validates the X-API-Key header.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				http.Error(w, `{"error":"missing API key"}`, http.StatusUnauthorized)
				return
			}
			if key != apiKey {
				http.Error(w, `{"error":"invalid API key"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-User-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
