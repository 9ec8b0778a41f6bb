package middleware

import (
	"net/http"

	"github.com/themelissanyc/melissa/config"
)

const (
	corsMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	corsHeaders = "Content-Type, Authorization, Accept, Origin, X-Requested-With"
)

// CORS applies the CORS_ORIGINS allow-list from config. Requests without an
// Origin header (curl, server-to-server) pass through untouched. An entry of
// "*" allows every origin, but then credentials are not advertised since
// browsers reject that combination.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if allowed, wildcard := originAllowed(origin); allowed {
				if wildcard {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Add("Vary", "Origin")
				}
				w.Header().Set("Access-Control-Allow-Methods", corsMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(origin string) (allowed, wildcard bool) {
	for _, entry := range config.CORSOrigins() {
		if entry == "*" {
			return true, true
		}
		if entry == origin {
			return true, false
		}
	}
	return false, false
}
