package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"wegetchat/errors"
)

type errorBody struct {
	Error string `json:"error"`
}

type okBody struct {
	OK bool `json:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, okBody{OK: true})
}

// writeError maps the error kind to a status code. Only the public message is sent.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	public := errors.Public(err)
	status := statusOf(public.Kind)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "code", public.Code, "err", err)
	}
	writeJSON(w, status, errorBody{Error: public.Message})
}

func statusOf(kind errors.Kind) int {
	switch kind {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindConflict:
		return http.StatusConflict
	case errors.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
