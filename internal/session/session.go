// Package session coordinates one daily quiz attempt: the availability gate,
// the random draw, per-question answers with timing, and the final handoff to
// the student progress store. Session state is transient; nothing persists
// until Finish.
package session

import (
	"context"
	"errors"
	"time"

	"daily-quiz/internal/bank"
	"daily-quiz/internal/student"
)

// DefaultQuestionCount is the daily draw size.
const DefaultQuestionCount = 5

// SkippedAnswer marks a question the student never answered.
const SkippedAnswer = -1

var (
	ErrQuizNotAvailable = errors.New("daily quiz is not available until tomorrow")
	ErrNoQuestions      = errors.New("question bank is empty")
	ErrUnknownQuestion  = errors.New("question is not part of this session")
	ErrAlreadyAnswered  = errors.New("question already answered in this session")
	ErrInvalidAnswer    = errors.New("selected answer is out of range")
	ErrIncomplete       = errors.New("session still has unanswered questions")
)

type Flow struct {
	bank     *bank.Store
	students *student.Store
	size     int
	now      func() time.Time
}

func NewFlow(bankStore *bank.Store, studentStore *student.Store, size int) *Flow {
	return NewFlowWithClock(bankStore, studentStore, size, time.Now)
}

func NewFlowWithClock(bankStore *bank.Store, studentStore *student.Store, size int, now func() time.Time) *Flow {
	if size <= 0 {
		size = DefaultQuestionCount
	}
	return &Flow{
		bank:     bankStore,
		students: studentStore,
		size:     size,
		now:      now,
	}
}

// Session is one in-flight attempt for the current student.
type Session struct {
	flow      *Flow
	startedAt time.Time
	questions []bank.Question
	results   map[string]student.QuestionResult
	order     []string
}

// Start gates on today's availability and draws the question set.
func (f *Flow) Start(ctx context.Context) (*Session, error) {
	can, err := f.students.CanAttemptToday(ctx)
	if err != nil {
		return nil, err
	}
	if !can {
		return nil, ErrQuizNotAvailable
	}

	questions, err := f.bank.RandomSample(ctx, f.size)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	order := make([]string, 0, len(questions))
	for _, question := range questions {
		order = append(order, question.ID)
	}

	return &Session{
		flow:      f,
		startedAt: f.now(),
		questions: questions,
		results:   make(map[string]student.QuestionResult, len(questions)),
		order:     order,
	}, nil
}

// Questions returns the drawn set in presentation order.
func (s *Session) Questions() []bank.Question {
	return s.questions
}

// Answer records the student's pick for one drawn question, snapshotting the
// question text and correct index so later bank edits cannot rewrite history.
// SkippedAnswer records a skipped question as incorrect.
func (s *Session) Answer(questionID string, selected int, timeSpent time.Duration) (student.QuestionResult, error) {
	var target *bank.Question
	for idx := range s.questions {
		if s.questions[idx].ID == questionID {
			target = &s.questions[idx]
			break
		}
	}
	if target == nil {
		return student.QuestionResult{}, ErrUnknownQuestion
	}
	if _, done := s.results[questionID]; done {
		return student.QuestionResult{}, ErrAlreadyAnswered
	}
	if selected != SkippedAnswer && (selected < 0 || selected >= len(target.Options)) {
		return student.QuestionResult{}, ErrInvalidAnswer
	}

	result := student.QuestionResult{
		QuestionID:     target.ID,
		Question:       target.Question,
		SelectedAnswer: selected,
		CorrectAnswer:  target.CorrectAnswer,
		IsCorrect:      selected == target.CorrectAnswer,
		TimeSpentMs:    timeSpent.Milliseconds(),
	}
	s.results[questionID] = result
	return result, nil
}

// Answered reports how many questions have a recorded result.
func (s *Session) Answered() int {
	return len(s.results)
}

// Finish scores the attempt (one point per correct answer) and applies the
// completion transition to the current student.
func (s *Session) Finish(ctx context.Context) (student.QuizResult, student.Progress, error) {
	if len(s.results) != len(s.questions) {
		return student.QuizResult{}, student.Progress{}, ErrIncomplete
	}

	score := 0
	questionResults := make([]student.QuestionResult, 0, len(s.order))
	for _, id := range s.order {
		result := s.results[id]
		if result.IsCorrect {
			score++
		}
		questionResults = append(questionResults, result)
	}

	now := s.flow.now()
	quizResult := student.QuizResult{
		Date:           now.UTC().Format(time.RFC3339),
		Score:          score,
		TotalQuestions: len(s.questions),
		TimeSpentMs:    now.Sub(s.startedAt).Milliseconds(),
		Questions:      questionResults,
	}

	progress, err := s.flow.students.CompleteQuiz(ctx, quizResult)
	if err != nil {
		return student.QuizResult{}, student.Progress{}, err
	}
	return quizResult, progress, nil
}
