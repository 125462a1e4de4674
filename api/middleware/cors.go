package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"https://seedmarket.nl",
	"https://seedmarket.de",
	"https://seedmarket.be",
	"https://seedmarket.fr",
	"https://seedmarket.com",
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Storefront-Domain", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
