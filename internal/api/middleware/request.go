package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// VoteMarkerHeader is the out-of-band marker genuine clients attach to vote
// submissions. Cross-site form posts cannot set custom headers, so its
// absence is rejected before any other check runs.
const VoteMarkerHeader = "X-Voting-Request"

func RequireVoteMarker(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(VoteMarkerHeader) != "true" {
			slog.Warn("vote request without marker header", "ip", ClientIP(r))
			denyJSON(w, http.StatusForbidden, "Invalid request origin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP resolves the originating address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-Ip"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CORS allows the voting frontend to call the API with credentials.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+VoteMarkerHeader)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
