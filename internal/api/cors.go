package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORSOptions is the subset of cross-origin settings exposed via config.
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

func (o CORSOptions) allowsAny() bool {
	for _, origin := range o.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// corsHandler decorates simple requests. Preflights pass through to
// preflight below.
func corsHandler(o CORSOptions) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:     o.AllowedOrigins,
		AllowedMethods:     o.AllowedMethods,
		AllowedHeaders:     o.AllowedHeaders,
		MaxAge:             o.MaxAge,
		OptionsPassthrough: true,
	})
}

// preflight answers every OPTIONS request, on any path, with 200 and an
// empty JSON object.
func preflight(o CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(o.AllowedMethods, ", ")
	headers := strings.Join(o.AllowedHeaders, ", ")
	anyOrigin := o.allowsAny()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if anyOrigin {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("{}"))
		})
	}
}
