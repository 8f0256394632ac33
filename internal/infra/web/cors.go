package web

import (
	"github.com/go-chi/cors"
)

// CORS admits any origin when the allow-list is empty. Listed origins are
// echoed back with credentials allowed; anything else gets no CORS headers.
func CORS(allowedOrigins []string) Middleware {
	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Trace-Id", "Retry-After"},
		AllowCredentials: len(allowedOrigins) > 0,
		MaxAge:           300,
	})
}
