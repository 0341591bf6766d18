package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"party-quiz/internal/app"
	"party-quiz/internal/domain"
)

// NewRouter mounts the websocket endpoint and the read-only JSON endpoints.
func NewRouter(service *app.QuizService, logger *log.Logger) http.Handler {
	ws := NewWSHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", ws.ServeWS)
	mux.HandleFunc("GET /rounds/types", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.RoundTypes())
	})
	mux.HandleFunc("GET /quizzes/{id}/rounds", func(w http.ResponseWriter, r *http.Request) {
		rounds, err := service.Rounds(r.Context(), r.PathValue("id"))
		if errors.Is(err, domain.ErrQuizNotFound) {
			writeJSON(w, http.StatusNotFound, errorPayload{Message: err.Error()})
			return
		}
		if err != nil {
			logger.Error("list rounds", "quiz", r.PathValue("id"), "err", err)
			writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "could not load quiz"})
			return
		}
		writeJSON(w, http.StatusOK, rounds)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
