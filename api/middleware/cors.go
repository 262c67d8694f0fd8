package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"github.com/mercaditoapp/mercadito-backend/pkg/env"
)

// allowedOrigins returns the origin allowlist. MERCADITO_CORS_ORIGINS takes a
// comma-separated list for preview deployments; otherwise the known frontends
// are used.
func allowedOrigins() []string {
	if raw := env.Get("MERCADITO_CORS_ORIGINS", ""); raw != "" {
		var origins []string
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) > 0 {
			return origins
		}
	}
	return []string{
		"http://localhost:3000",       // local dev
		"https://mercadito.app",       // storefront
		"https://admin.mercadito.app", // admin console
	}
}

// CORS applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
