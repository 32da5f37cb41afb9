package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"daily-quiz/internal/student"
)

func (a *API) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := a.students.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, studentsResponse{Students: students})
}

func (a *API) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request createStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	created, err := a.students.Create(r.Context(), request.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleCurrentStudent(w http.ResponseWriter, r *http.Request) {
	current, err := a.students.Current(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (a *API) handleSetCurrentStudent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request setCurrentStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := a.students.SetCurrent(r.Context(), request.StudentID); err != nil {
		writeServiceError(w, err)
		return
	}

	current, err := a.students.Current(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (a *API) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	removed, err := a.students.Delete(r.Context(), chi.URLParam(r, "student_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "student not found"})
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: true})
}

func (a *API) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	sortBy := strings.TrimSpace(r.URL.Query().Get("sort"))
	if sortBy == "" {
		sortBy = student.SortByPoints
	}

	ranked, err := a.students.Leaderboard(r.Context(), sortBy)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{SortBy: sortBy, Students: ranked})
}
