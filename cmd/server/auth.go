package main

import (
	"context"
	"log"
	"net/http"
)

type contextKey string

const UserIDKey contextKey = "userId"

// ExtractUserMiddleware reads the user set by the auth proxy. Requests
// without one run as devUser, or are rejected when devUser is empty.
func ExtractUserMiddleware(devUser string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Traefik BasicAuth sets this header
			userId := r.Header.Get("X-Auth-User")

			if userId == "" {
				userId = r.Header.Get("X-Forwarded-User")
			}
			if userId == "" {
				userId = r.Header.Get("Remote-User")
			}

			if userId == "" && devUser != "" {
				userId = devUser
				log.Printf("Warning: No auth header, using %s", devUser)
			}

			if userId == "" {
				log.Printf("Authentication failed: no user header found")
				respondError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userId)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserId(r *http.Request) string {
	userId, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userId
}
