package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// CORSMethods and CORSHeaders are advertised on every cross-origin response.
var (
	CORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	CORSHeaders = []string{
		"Accept", "Authorization", "Content-Type",
		"X-Amz-Date", "X-Amz-Security-Token", "X-Amz-User-Agent", "X-Api-Key",
	}
)

// Preflight answers every OPTIONS request with 200 and the panel's CORS
// headers, whether or not the request is a well-formed browser preflight.
func Preflight(allowedOrigins []string) func(http.Handler) http.Handler {
	methods := strings.Join(CORSMethods, ", ")
	headers := strings.Join(CORSHeaders, ", ")
	wildcard := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			h := w.Header()
			switch origin := r.Header.Get("Origin"); {
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			case slices.Contains(allowedOrigins, origin):
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Max-Age", "300")
			w.WriteHeader(http.StatusOK)
		})
	}
}
