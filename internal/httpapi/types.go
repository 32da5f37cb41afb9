package httpapi

import (
	"daily-quiz/internal/bank"
	"daily-quiz/internal/student"
)

type questionDraftRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Category      string   `json:"category,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

type questionUpdateRequest struct {
	Question      *string  `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"`
	Explanation   *string  `json:"explanation,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Difficulty    *string  `json:"difficulty,omitempty"`
}

type questionsResponse struct {
	Questions []bank.Question `json:"questions"`
}

type metadataRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type createStudentRequest struct {
	Name string `json:"name"`
}

type setCurrentStudentRequest struct {
	StudentID string `json:"studentId"`
}

type studentsResponse struct {
	Students []student.Progress `json:"students"`
}

type leaderboardResponse struct {
	SortBy   string             `json:"sortBy"`
	Students []student.Progress `json:"students"`
}

type quizTodayResponse struct {
	CanAttempt    bool   `json:"canAttempt"`
	QuestionCount int    `json:"questionCount"`
	StudentID     string `json:"studentId"`
	StudentName   string `json:"studentName"`
	CurrentStreak int    `json:"currentStreak"`
}

type quizStartResponse struct {
	Questions []bank.Question `json:"questions"`
}

type quizAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer int    `json:"selectedAnswer"`
	TimeSpentMs    int64  `json:"timeSpent"`
}

type quizCompleteRequest struct {
	Answers []quizAnswer `json:"answers"`
}

type quizCompleteResponse struct {
	Result   student.QuizResult `json:"result"`
	Progress student.Progress   `json:"progress"`
}

type deletedResponse struct {
	Deleted bool `json:"deleted"`
}

type errorResponse struct {
	Error string `json:"error"`
}
