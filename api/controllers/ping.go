package controllers

import (
	"net/http"

	"github.com/verdantlabs/seedmarket-backend/api/middleware"
	"github.com/verdantlabs/seedmarket-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func AdminPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "admin", "status": "ok"}
		if subject := middleware.SubjectFromContext(r.Context()); subject != "" {
			payload["subject"] = subject
		}
		responses.WriteSuccess(w, payload)
	}
}
