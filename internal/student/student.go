// Package student tracks per-profile progress: points, daily streak, and the
// append-only quiz history. Exactly one profile is "current" at a time; the
// pointer is a persisted key owned by the store, not ambient global state.
package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"daily-quiz/internal/storage"
)

const (
	allStudentsKey    = "allStudents"
	currentStudentKey = "currentStudentId"
	legacyStudentKey  = "studentData"

	defaultStudentName = "Student"
)

var (
	ErrStudentNotFound       = errors.New("student not found")
	ErrInvalidName           = errors.New("student name is required")
	ErrAlreadyCompletedToday = errors.New("daily quiz already completed today")
)

// Progress is one student's record. TotalPoints grows additively with each
// completed quiz; CurrentStreak counts consecutive calendar days with an
// attempt; QuizHistory is append-only.
type Progress struct {
	StudentID       string       `json:"studentId"`
	StudentName     string       `json:"studentName"`
	TotalPoints     int          `json:"totalPoints"`
	CurrentStreak   int          `json:"currentStreak"`
	LastAttemptDate string       `json:"lastAttemptDate,omitempty"`
	TodayCompleted  bool         `json:"todayCompleted"`
	QuizHistory     []QuizResult `json:"quizHistory"`
}

// QuizResult is an immutable record of one completed attempt.
type QuizResult struct {
	Date           string           `json:"date"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	TimeSpentMs    int64            `json:"timeSpent"`
	Questions      []QuestionResult `json:"questions"`
}

// QuestionResult snapshots one question at attempt time, decoupled from later
// edits to the source question.
type QuestionResult struct {
	QuestionID     string `json:"questionId"`
	Question       string `json:"question"`
	SelectedAnswer int    `json:"selectedAnswer"`
	CorrectAnswer  int    `json:"correctAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	TimeSpentMs    int64  `json:"timeSpent"`
}

type Store struct {
	kv  storage.KV
	now func() time.Time
}

func NewStore(kv storage.KV) *Store {
	return NewStoreWithClock(kv, time.Now)
}

// NewStoreWithClock pins "today"; streak tests depend on it.
func NewStoreWithClock(kv storage.KV, now func() time.Time) *Store {
	return &Store{kv: kv, now: now}
}

// ListAll returns every stored profile. A missing collection reads as empty.
func (s *Store) ListAll(ctx context.Context) ([]Progress, error) {
	raw, err := s.kv.Get(ctx, allStudentsKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return []Progress{}, nil
		}
		return nil, err
	}

	var students []Progress
	if err := json.Unmarshal(raw, &students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	if students == nil {
		students = []Progress{}
	}
	return students, nil
}

// Current resolves the active profile. On first use it adopts a legacy
// single-profile record if one exists, and otherwise creates a fresh default
// profile and makes it current.
func (s *Store) Current(ctx context.Context) (Progress, error) {
	currentID, err := s.currentID(ctx)
	if err != nil {
		return Progress{}, err
	}

	if currentID != "" {
		students, err := s.ListAll(ctx)
		if err != nil {
			return Progress{}, err
		}
		for _, student := range students {
			if student.StudentID == currentID {
				return student, nil
			}
		}
	}

	if legacy, ok, err := s.legacyRecord(ctx); err != nil {
		return Progress{}, err
	} else if ok {
		if err := s.upsert(ctx, legacy); err != nil {
			return Progress{}, err
		}
		if err := s.SetCurrent(ctx, legacy.StudentID); err != nil {
			return Progress{}, err
		}
		return legacy, nil
	}

	return s.Create(ctx, defaultStudentName)
}

// Create adds a named profile with zeroed stats and makes it current.
func (s *Store) Create(ctx context.Context, name string) (Progress, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Progress{}, ErrInvalidName
	}

	student := Progress{
		StudentID:   uuid.NewString(),
		StudentName: name,
		QuizHistory: []QuizResult{},
	}

	if err := s.upsert(ctx, student); err != nil {
		return Progress{}, err
	}
	if err := s.kv.Set(ctx, currentStudentKey, []byte(student.StudentID)); err != nil {
		return Progress{}, err
	}
	return student, nil
}

// Delete removes the profile. When it was current the pointer is cleared and
// the caller must select (or lazily create) a replacement. Reports false when
// the id is absent.
func (s *Store) Delete(ctx context.Context, studentID string) (bool, error) {
	students, err := s.ListAll(ctx)
	if err != nil {
		return false, err
	}

	filtered := students[:0]
	for _, student := range students {
		if student.StudentID != studentID {
			filtered = append(filtered, student)
		}
	}
	if len(filtered) == len(students) {
		return false, nil
	}

	if err := s.saveAll(ctx, filtered); err != nil {
		return false, err
	}

	currentID, err := s.currentID(ctx)
	if err != nil {
		return false, err
	}
	if currentID == studentID {
		if err := s.kv.Delete(ctx, currentStudentKey); err != nil {
			return false, err
		}
	}
	return true, nil
}

// SetCurrent points the active session at an existing profile.
func (s *Store) SetCurrent(ctx context.Context, studentID string) error {
	students, err := s.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, student := range students {
		if student.StudentID == studentID {
			return s.kv.Set(ctx, currentStudentKey, []byte(studentID))
		}
	}
	return ErrStudentNotFound
}

// CanAttemptToday reports whether the current profile may still take today's
// quiz. Dates are compared as calendar-day strings.
func (s *Store) CanAttemptToday(ctx context.Context) (bool, error) {
	student, err := s.Current(ctx)
	if err != nil {
		return false, err
	}
	return !(student.TodayCompleted && student.LastAttemptDate == s.today()), nil
}

// CompleteQuiz applies the daily-completion transition to the current
// profile: streak recomputation, additive points, history append. A second
// completion on the same calendar day is rejected so points and streak can
// never be double-counted.
func (s *Store) CompleteQuiz(ctx context.Context, result QuizResult) (Progress, error) {
	student, err := s.Current(ctx)
	if err != nil {
		return Progress{}, err
	}

	today := s.today()
	if student.TodayCompleted && student.LastAttemptDate == today {
		return Progress{}, ErrAlreadyCompletedToday
	}

	student.CurrentStreak = nextStreak(student.CurrentStreak, student.LastAttemptDate, today)
	student.TotalPoints += result.Score
	student.LastAttemptDate = today
	student.TodayCompleted = true
	student.QuizHistory = append(student.QuizHistory, result)

	if err := s.upsert(ctx, student); err != nil {
		return Progress{}, err
	}
	return student, nil
}

func (s *Store) currentID(ctx context.Context) (string, error) {
	raw, err := s.kv.Get(ctx, currentStudentKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(raw), nil
}

func (s *Store) legacyRecord(ctx context.Context) (Progress, bool, error) {
	raw, err := s.kv.Get(ctx, legacyStudentKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return Progress{}, false, nil
		}
		return Progress{}, false, err
	}

	var legacy Progress
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return Progress{}, false, fmt.Errorf("decode legacy student record: %w", err)
	}
	if legacy.StudentID == "" {
		return Progress{}, false, nil
	}
	if legacy.QuizHistory == nil {
		legacy.QuizHistory = []QuizResult{}
	}
	return legacy, true, nil
}

func (s *Store) upsert(ctx context.Context, student Progress) error {
	students, err := s.ListAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for idx := range students {
		if students[idx].StudentID == student.StudentID {
			students[idx] = student
			replaced = true
			break
		}
	}
	if !replaced {
		students = append(students, student)
	}
	return s.saveAll(ctx, students)
}

func (s *Store) saveAll(ctx context.Context, students []Progress) error {
	raw, err := json.Marshal(students)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, allStudentsKey, raw)
}
