package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// RecoveryMiddleware recovers from panics and logs the error
func RecoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("error", err),
						zap.Stack("stack"),
					)

					writeErrorEnvelope(w, http.StatusInternalServerError, "internal server error", GetRequestID(r.Context()))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

type errorEnvelope struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSONError writes a fixed error envelope without going through a handler
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeErrorEnvelope(w, status, message, "")
}

// writeErrorEnvelope adds the request id to the body when one is known
// so a client can quote it when reporting a server error
func writeErrorEnvelope(w http.ResponseWriter, status int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{Error: message, RequestID: requestID})
}
