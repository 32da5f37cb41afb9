package student

import (
	"context"
	"sort"
)

// Leaderboard orderings.
const (
	SortByPoints  = "points"
	SortByStreak  = "streak"
	SortByRecent  = "recent"
	SortByQuizzes = "quizzes"
)

// Leaderboard returns all profiles ranked by the requested ordering. Unknown
// orderings fall back to points. Ties break on name to keep the ranking
// deterministic.
func (s *Store) Leaderboard(ctx context.Context, sortBy string) ([]Progress, error) {
	students, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ranked := append([]Progress(nil), students...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch sortBy {
		case SortByStreak:
			if a.CurrentStreak != b.CurrentStreak {
				return a.CurrentStreak > b.CurrentStreak
			}
		case SortByRecent:
			if a.LastAttemptDate != b.LastAttemptDate {
				return a.LastAttemptDate > b.LastAttemptDate
			}
		case SortByQuizzes:
			if len(a.QuizHistory) != len(b.QuizHistory) {
				return len(a.QuizHistory) > len(b.QuizHistory)
			}
		default:
			if a.TotalPoints != b.TotalPoints {
				return a.TotalPoints > b.TotalPoints
			}
		}
		return a.StudentName < b.StudentName
	})
	return ranked, nil
}
