package student

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"daily-quiz/internal/storage"
)

type clock struct {
	at time.Time
}

func (c *clock) now() time.Time {
	return c.at
}

func (c *clock) advanceDays(n int) {
	c.at = c.at.AddDate(0, 0, n)
}

func newTestStore(t *testing.T) (*Store, *clock, *storage.Memory) {
	t.Helper()

	kv := storage.NewMemory()
	clk := &clock{at: time.Date(2024, time.March, 10, 20, 30, 0, 0, time.UTC)}
	return NewStoreWithClock(kv, clk.now), clk, kv
}

func result(score, total int) QuizResult {
	return QuizResult{
		Date:           "2024-03-10T20:30:00Z",
		Score:          score,
		TotalQuestions: total,
		TimeSpentMs:    90_000,
		Questions: []QuestionResult{
			{QuestionID: "q1", Question: "2+2?", SelectedAnswer: 0, CorrectAnswer: 0, IsCorrect: true, TimeSpentMs: 45_000},
		},
	}
}

func TestCurrentCreatesDefaultProfileOnFirstUse(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	student, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if student.StudentID == "" {
		t.Fatal("expected assigned student id")
	}
	if student.StudentName != "Student" {
		t.Fatalf("default name = %q", student.StudentName)
	}
	if student.TotalPoints != 0 || student.CurrentStreak != 0 || student.TodayCompleted {
		t.Fatalf("default profile must have zeroed stats: %+v", student)
	}

	again, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if again.StudentID != student.StudentID {
		t.Fatalf("second Current created a new profile: %q vs %q", again.StudentID, student.StudentID)
	}
}

func TestCurrentMigratesLegacyRecord(t *testing.T) {
	store, _, kv := newTestStore(t)
	ctx := context.Background()

	legacy := Progress{
		StudentID:     "legacy-1",
		StudentName:   "Ada",
		TotalPoints:   12,
		CurrentStreak: 3,
	}
	raw, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal legacy: %v", err)
	}
	if err := kv.Set(ctx, "studentData", raw); err != nil {
		t.Fatalf("seed legacy record: %v", err)
	}

	student, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if student.StudentID != "legacy-1" || student.TotalPoints != 12 {
		t.Fatalf("legacy record not adopted: %+v", student)
	}

	students, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(students) != 1 || students[0].StudentID != "legacy-1" {
		t.Fatalf("legacy record not added to the list: %+v", students)
	}
}

func TestCreateBecomesCurrent(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, "Ada")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := store.Create(ctx, "Grace")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.StudentID == second.StudentID {
		t.Fatal("expected unique student ids")
	}

	current, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current.StudentID != second.StudentID {
		t.Fatalf("newest profile should be current, got %q", current.StudentName)
	}

	if _, err := store.Create(ctx, "   "); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for blank name, got %v", err)
	}
}

func TestSetCurrentAndDelete(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	ada, err := store.Create(ctx, "Ada")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	grace, err := store.Create(ctx, "Grace")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetCurrent(ctx, "missing"); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
	if err := store.SetCurrent(ctx, ada.StudentID); err != nil {
		t.Fatalf("SetCurrent failed: %v", err)
	}

	current, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current.StudentID != ada.StudentID {
		t.Fatalf("current = %q, want Ada", current.StudentName)
	}

	removed, err := store.Delete(ctx, "missing")
	if err != nil {
		t.Fatalf("Delete missing failed: %v", err)
	}
	if removed {
		t.Fatal("Delete reported true for a missing id")
	}

	// Deleting the current profile clears the pointer; the next Current()
	// falls back to a fresh default profile.
	removed, err = store.Delete(ctx, ada.StudentID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !removed {
		t.Fatal("Delete reported false for an existing id")
	}

	current, err = store.Current(ctx)
	if err != nil {
		t.Fatalf("Current after delete failed: %v", err)
	}
	if current.StudentID == ada.StudentID {
		t.Fatal("deleted profile still current")
	}

	students, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	foundGrace := false
	for _, student := range students {
		if student.StudentID == grace.StudentID {
			foundGrace = true
		}
	}
	if !foundGrace {
		t.Fatal("unrelated profile was removed")
	}
}

func TestCompleteQuizFirstAttemptStartsStreakAtOne(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	updated, err := store.CompleteQuiz(ctx, result(3, 5))
	if err != nil {
		t.Fatalf("CompleteQuiz failed: %v", err)
	}
	if updated.CurrentStreak != 1 {
		t.Fatalf("first-ever attempt streak = %d, want 1", updated.CurrentStreak)
	}
	if updated.TotalPoints != 3 {
		t.Fatalf("totalPoints = %d, want 3", updated.TotalPoints)
	}
	if updated.LastAttemptDate != "2024-03-10" {
		t.Fatalf("lastAttemptDate = %q", updated.LastAttemptDate)
	}
	if !updated.TodayCompleted {
		t.Fatal("todayCompleted not set")
	}
	if len(updated.QuizHistory) != 1 {
		t.Fatalf("quizHistory length = %d, want 1", len(updated.QuizHistory))
	}
}

func TestCompleteQuizConsecutiveDayIncrementsStreak(t *testing.T) {
	store, clk, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CompleteQuiz(ctx, result(3, 5)); err != nil {
		t.Fatalf("day 1 failed: %v", err)
	}

	clk.advanceDays(1)
	updated, err := store.CompleteQuiz(ctx, result(4, 5))
	if err != nil {
		t.Fatalf("day 2 failed: %v", err)
	}
	if updated.CurrentStreak != 2 {
		t.Fatalf("streak = %d, want 2", updated.CurrentStreak)
	}
	if updated.TotalPoints != 7 {
		t.Fatalf("totalPoints = %d, want 7 (3+4)", updated.TotalPoints)
	}
	if len(updated.QuizHistory) != 2 {
		t.Fatalf("quizHistory length = %d, want 2", len(updated.QuizHistory))
	}
	if updated.QuizHistory[0].Score != 3 || updated.QuizHistory[1].Score != 4 {
		t.Fatalf("history order broken: %+v", updated.QuizHistory)
	}
}

func TestCompleteQuizGapResetsStreak(t *testing.T) {
	store, clk, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CompleteQuiz(ctx, result(5, 5)); err != nil {
		t.Fatalf("day 1 failed: %v", err)
	}
	clk.advanceDays(1)
	if _, err := store.CompleteQuiz(ctx, result(5, 5)); err != nil {
		t.Fatalf("day 2 failed: %v", err)
	}

	clk.advanceDays(3)
	updated, err := store.CompleteQuiz(ctx, result(2, 5))
	if err != nil {
		t.Fatalf("day 5 failed: %v", err)
	}
	if updated.CurrentStreak != 1 {
		t.Fatalf("streak after 3-day gap = %d, want 1", updated.CurrentStreak)
	}
}

func TestCompleteQuizSameDayRejected(t *testing.T) {
	store, clk, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CompleteQuiz(ctx, result(3, 5)); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}

	can, err := store.CanAttemptToday(ctx)
	if err != nil {
		t.Fatalf("CanAttemptToday failed: %v", err)
	}
	if can {
		t.Fatal("CanAttemptToday must be false right after completion")
	}

	if _, err := store.CompleteQuiz(ctx, result(4, 5)); !errors.Is(err, ErrAlreadyCompletedToday) {
		t.Fatalf("expected ErrAlreadyCompletedToday, got %v", err)
	}

	current, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current.TotalPoints != 3 || len(current.QuizHistory) != 1 {
		t.Fatalf("rejected completion mutated state: %+v", current)
	}

	// The gate reopens on the next calendar day.
	clk.advanceDays(1)
	can, err = store.CanAttemptToday(ctx)
	if err != nil {
		t.Fatalf("CanAttemptToday failed: %v", err)
	}
	if !can {
		t.Fatal("CanAttemptToday must be true on the next day")
	}
}

func TestNextStreakTable(t *testing.T) {
	tests := []struct {
		name    string
		current int
		last    string
		today   string
		want    int
	}{
		{name: "first ever", current: 0, last: "", today: "2024-03-10", want: 1},
		{name: "consecutive day", current: 4, last: "2024-03-09", today: "2024-03-10", want: 5},
		{name: "two day gap", current: 4, last: "2024-03-08", today: "2024-03-10", want: 1},
		{name: "long gap", current: 9, last: "2024-01-01", today: "2024-03-10", want: 1},
		{name: "same day unchanged", current: 4, last: "2024-03-10", today: "2024-03-10", want: 4},
		{name: "across month boundary", current: 2, last: "2024-02-29", today: "2024-03-01", want: 3},
		{name: "clock went backwards", current: 4, last: "2024-03-11", today: "2024-03-10", want: 1},
		{name: "malformed last date", current: 4, last: "yesterday-ish", today: "2024-03-10", want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextStreak(tc.current, tc.last, tc.today); got != tc.want {
				t.Fatalf("nextStreak(%d, %q, %q) = %d, want %d", tc.current, tc.last, tc.today, got, tc.want)
			}
		})
	}
}

func TestLeaderboardOrderings(t *testing.T) {
	store, clk, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, "Ada"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.CompleteQuiz(ctx, result(5, 5)); err != nil {
		t.Fatalf("Ada quiz failed: %v", err)
	}
	clk.advanceDays(1)
	if _, err := store.CompleteQuiz(ctx, result(5, 5)); err != nil {
		t.Fatalf("Ada quiz failed: %v", err)
	}

	if _, err := store.Create(ctx, "Grace"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.CompleteQuiz(ctx, result(4, 5)); err != nil {
		t.Fatalf("Grace quiz failed: %v", err)
	}

	byPoints, err := store.Leaderboard(ctx, SortByPoints)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if byPoints[0].StudentName != "Ada" {
		t.Fatalf("points ranking: got %q first", byPoints[0].StudentName)
	}

	byQuizzes, err := store.Leaderboard(ctx, SortByQuizzes)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if byQuizzes[0].StudentName != "Ada" || len(byQuizzes[0].QuizHistory) != 2 {
		t.Fatalf("quizzes ranking: %+v", byQuizzes[0])
	}

	byStreak, err := store.Leaderboard(ctx, SortByStreak)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if byStreak[0].CurrentStreak < byStreak[1].CurrentStreak {
		t.Fatalf("streak ranking not descending: %+v", byStreak)
	}
}

func TestDisabledStorageYieldsDefaults(t *testing.T) {
	store := NewStore(storage.NewDisabled())
	ctx := context.Background()

	student, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("Current on disabled storage errored: %v", err)
	}
	if student.StudentName != "Student" {
		t.Fatalf("expected default profile, got %+v", student)
	}

	// Writes are no-ops, so the list stays empty.
	students, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(students) != 0 {
		t.Fatalf("expected no persisted students, got %d", len(students))
	}
}
