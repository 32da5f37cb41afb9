package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"daily-quiz/internal/bank"
	"daily-quiz/internal/session"
	"daily-quiz/internal/student"
)

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bank.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question not found"})
	case errors.Is(err, student.ErrStudentNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "student not found"})
	case errors.Is(err, bank.ErrInvalidQuestion),
		errors.Is(err, student.ErrInvalidName),
		errors.Is(err, session.ErrInvalidAnswer),
		errors.Is(err, session.ErrUnknownQuestion):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrQuizNotAvailable),
		errors.Is(err, student.ErrAlreadyCompletedToday),
		errors.Is(err, session.ErrAlreadyAnswered),
		errors.Is(err, session.ErrIncomplete),
		errors.Is(err, session.ErrNoQuestions):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func parseBoolParam(r *http.Request, key string) bool {
	value := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return value == "1" || value == "true" || value == "yes"
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
