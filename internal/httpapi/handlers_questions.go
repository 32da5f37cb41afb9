package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"daily-quiz/internal/bank"
	"daily-quiz/internal/session"
)

func (a *API) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := a.bank.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionsResponse{Questions: questions})
}

func (a *API) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request questionDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	question, err := a.bank.Add(r.Context(), bank.Draft{
		Question:      request.Question,
		Options:       request.Options,
		CorrectAnswer: request.CorrectAnswer,
		Explanation:   request.Explanation,
		Category:      request.Category,
		Difficulty:    request.Difficulty,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (a *API) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request questionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	question, err := a.bank.Update(r.Context(), chi.URLParam(r, "question_id"), bank.Update{
		Question:      request.Question,
		Options:       request.Options,
		CorrectAnswer: request.CorrectAnswer,
		Explanation:   request.Explanation,
		Category:      request.Category,
		Difficulty:    request.Difficulty,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (a *API) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	removed, err := a.bank.Delete(r.Context(), chi.URLParam(r, "question_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "question not found"})
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: true})
}

func (a *API) handleSampleQuestions(w http.ResponseWriter, r *http.Request) {
	count, err := parseIntParam(r, "count", session.DefaultQuestionCount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	questions, err := a.bank.RandomSample(r.Context(), count)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionsResponse{Questions: questions})
}

func (a *API) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	metadata, err := a.bank.Metadata(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metadata)
}

func (a *API) handleSetMetadata(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request metadataRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if request.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	metadata, err := a.bank.SetMetadata(r.Context(), request.Title, request.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metadata)
}
