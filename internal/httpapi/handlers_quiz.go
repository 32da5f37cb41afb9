package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

func (a *API) handleQuizToday(w http.ResponseWriter, r *http.Request) {
	current, err := a.students.Current(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	can, err := a.students.CanAttemptToday(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	questions, err := a.bank.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quizTodayResponse{
		CanAttempt:    can,
		QuestionCount: len(questions),
		StudentID:     current.StudentID,
		StudentName:   current.StudentName,
		CurrentStreak: current.CurrentStreak,
	})
}

// handleQuizStart opens a fresh attempt, replacing any abandoned one. The
// drawn questions include the correct index and explanation because the UI
// grades interactively on the device.
func (a *API) handleQuizStart(w http.ResponseWriter, r *http.Request) {
	sess, err := a.flow.Start(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	a.mu.Lock()
	a.active = sess
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, quizStartResponse{Questions: sess.Questions()})
}

func (a *API) handleQuizComplete(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request quizCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	a.mu.Lock()
	sess := a.active
	a.mu.Unlock()
	if sess == nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "no quiz in progress; start one first"})
		return
	}

	for _, answer := range request.Answers {
		if _, err := sess.Answer(answer.QuestionID, answer.SelectedAnswer, time.Duration(answer.TimeSpentMs)*time.Millisecond); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	result, progress, err := sess.Finish(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	a.mu.Lock()
	a.active = nil
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, quizCompleteResponse{Result: result, Progress: progress})
}
