package controllers

import (
	"net/http"

	"github.com/biddergod/users-service/api/middleware"
	"github.com/biddergod/users-service/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{"scope": "private", "status": "ok"}
		if userID := middleware.UserIDFromContext(r.Context()); userID != 0 {
			payload["user_id"] = userID
		}
		responses.WriteSuccess(w, payload)
	}
}
