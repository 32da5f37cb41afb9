// Package cli is the interactive terminal front end. It talks to the same
// local stores as the HTTP surface, so a student can switch between the
// browser UI and the terminal without losing progress.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"daily-quiz/internal/bank"
	"daily-quiz/internal/bankio"
	"daily-quiz/internal/session"
	"daily-quiz/internal/student"
)

const (
	defaultHistoryLimit      = 10
	defaultMaxInvalidAnswers = 3
)

type Config struct {
	HistoryLimit      int
	MaxInvalidAnswers int
}

type App struct {
	bank     *bank.Store
	students *student.Store
	io       *bankio.Service
	flow     *session.Flow
}

func NewApp(bankStore *bank.Store, studentStore *student.Store, ioService *bankio.Service, flow *session.Flow) *App {
	return &App{
		bank:     bankStore,
		students: studentStore,
		io:       ioService,
		flow:     flow,
	}
}

// Run drives the command loop until exit or EOF.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	maxInvalidAnswers := cfg.MaxInvalidAnswers
	if maxInvalidAnswers <= 0 {
		maxInvalidAnswers = defaultMaxInvalidAnswers
	}

	current, err := a.students.Current(ctx)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "daily-quiz\nstudent=%s\n\n", current.StudentName)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printHelp(out)
		case "exit":
			return nil
		case "play":
			if err := a.runPlay(ctx, reader, out, maxInvalidAnswers); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "progress":
			if err := a.runProgress(ctx, out); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "history":
			limit, parseErr := parsePositiveLimit(args, 1, historyLimit)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid history limit: %v\n", parseErr)
				continue
			}
			if err := a.runHistory(ctx, out, limit); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "leaderboard":
			sortBy := student.SortByPoints
			if len(args) > 1 {
				sortBy = strings.ToLower(args[1])
			}
			if err := a.runLeaderboard(ctx, out, sortBy); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "profiles":
			if err := a.runProfiles(ctx, out); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "profile":
			if err := a.runProfile(ctx, reader, out, args[1:]); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "import":
			if len(args) < 2 {
				fmt.Fprintln(out, "usage: import <file> [--replace]")
				continue
			}
			replace := len(args) > 2 && args[2] == "--replace"
			if err := a.runImport(ctx, out, args[1], replace); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "export":
			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			if err := a.runExport(ctx, out, path); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "sample":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: sample <file>")
				continue
			}
			if err := a.runSample(out, args[1]); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func (a *App) runPlay(ctx context.Context, reader *bufio.Reader, out io.Writer, maxInvalidAnswers int) error {
	sess, err := a.flow.Start(ctx)
	switch {
	case errors.Is(err, session.ErrQuizNotAvailable):
		fmt.Fprintln(out, "You already finished today's quiz. Come back tomorrow!")
		return nil
	case errors.Is(err, session.ErrNoQuestions):
		fmt.Fprintln(out, "The question bank is empty. Import questions first.")
		return nil
	case err != nil:
		return err
	}

	questions := sess.Questions()

	for idx, question := range questions {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Question %d of %d\n\n%s\n\n", idx+1, len(questions), question.Question)
		for optIdx, option := range question.Options {
			fmt.Fprintf(out, "%c. %s\n", 'A'+optIdx, option)
		}
		fmt.Fprintln(out)

		started := time.Now()
		selected := session.SkippedAnswer
		invalidCount := 0
		for {
			answer, ok := promptAnswer(reader, out, len(question.Options))
			if !ok {
				invalidCount++
				if invalidCount >= maxInvalidAnswers {
					fmt.Fprintln(out, "Skipping question after multiple invalid responses.")
					break
				}
				fmt.Fprintf(out, "Invalid input. Attempts remaining: %d\n", maxInvalidAnswers-invalidCount)
				continue
			}
			selected = int(answer[0] - 'A')
			break
		}

		result, err := sess.Answer(question.ID, selected, time.Since(started))
		if err != nil {
			return err
		}

		if result.IsCorrect {
			fmt.Fprintln(out, "Correct!")
		} else if selected != session.SkippedAnswer {
			fmt.Fprintf(out, "Wrong. Correct answer: %c. %s\n", 'A'+question.CorrectAnswer, question.Options[question.CorrectAnswer])
		}
		if question.Explanation != "" {
			fmt.Fprintf(out, "Explanation: %s\n", question.Explanation)
		}
	}

	result, progress, err := sess.Finish(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Score: %d/%d\n", result.Score, result.TotalQuestions)
	fmt.Fprintf(out, "Points earned: %d (total %d)\n", result.Score, progress.TotalPoints)
	fmt.Fprintf(out, "Streak: %d day(s)\n", progress.CurrentStreak)
	return nil
}

func (a *App) runProgress(ctx context.Context, out io.Writer) error {
	current, err := a.students.Current(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Student: %s (%s)\n", current.StudentName, current.StudentID)
	fmt.Fprintf(out, "Total points: %d\n", current.TotalPoints)
	fmt.Fprintf(out, "Current streak: %d day(s)\n", current.CurrentStreak)
	fmt.Fprintf(out, "Quizzes taken: %d\n", len(current.QuizHistory))
	if current.LastAttemptDate != "" {
		fmt.Fprintf(out, "Last attempt: %s\n", current.LastAttemptDate)
	} else {
		fmt.Fprintln(out, "Last attempt: never")
	}
	return nil
}

func (a *App) runHistory(ctx context.Context, out io.Writer, limit int) error {
	current, err := a.students.Current(ctx)
	if err != nil {
		return err
	}

	history := current.QuizHistory
	if len(history) == 0 {
		fmt.Fprintln(out, "No quizzes taken yet.")
		return nil
	}

	if limit > len(history) {
		limit = len(history)
	}
	fmt.Fprintf(out, "Last %d quiz(zes), most recent first:\n", limit)
	for idx := 0; idx < limit; idx++ {
		entry := history[len(history)-1-idx]
		fmt.Fprintf(out, "%d. %s score=%d/%d time=%s\n",
			idx+1,
			entry.Date,
			entry.Score,
			entry.TotalQuestions,
			(time.Duration(entry.TimeSpentMs) * time.Millisecond).String(),
		)
	}
	return nil
}

func (a *App) runLeaderboard(ctx context.Context, out io.Writer, sortBy string) error {
	ranked, err := a.students.Leaderboard(ctx, sortBy)
	if err != nil {
		return err
	}

	if len(ranked) == 0 {
		fmt.Fprintln(out, "No student profiles yet.")
		return nil
	}

	fmt.Fprintf(out, "Leaderboard (%s):\n", sortBy)
	for idx, entry := range ranked {
		fmt.Fprintf(out, "%d. %s points=%d streak=%d quizzes=%d\n",
			idx+1,
			entry.StudentName,
			entry.TotalPoints,
			entry.CurrentStreak,
			len(entry.QuizHistory),
		)
	}
	return nil
}

func (a *App) runProfiles(ctx context.Context, out io.Writer) error {
	students, err := a.students.ListAll(ctx)
	if err != nil {
		return err
	}
	current, err := a.students.Current(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Profiles:")
	for idx, entry := range students {
		marker := " "
		if entry.StudentID == current.StudentID {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %d. %s (%s) points=%d\n", marker, idx+1, entry.StudentName, entry.StudentID, entry.TotalPoints)
	}
	return nil
}

func (a *App) runProfile(ctx context.Context, reader *bufio.Reader, out io.Writer, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(out, "usage: profile new <name> | profile use <id-prefix> | profile delete <id-prefix>")
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "new":
		if len(args) < 2 {
			fmt.Fprintln(out, "usage: profile new <name>")
			return nil
		}
		created, err := a.students.Create(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Created and switched to %s (%s).\n", created.StudentName, created.StudentID)
		return nil
	case "use":
		if len(args) != 2 {
			fmt.Fprintln(out, "usage: profile use <id-prefix>")
			return nil
		}
		match, err := a.resolveProfile(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.students.SetCurrent(ctx, match.StudentID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Switched to %s.\n", match.StudentName)
		return nil
	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(out, "usage: profile delete <id-prefix>")
			return nil
		}
		match, err := a.resolveProfile(ctx, args[1])
		if err != nil {
			return err
		}
		confirmed, err := promptYesNo(reader, out, fmt.Sprintf("delete %s and all progress? (yes/no): ", match.StudentName))
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
		if _, err := a.students.Delete(ctx, match.StudentID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %s.\n", match.StudentName)
		return nil
	default:
		fmt.Fprintln(out, "usage: profile new <name> | profile use <id-prefix> | profile delete <id-prefix>")
		return nil
	}
}

// resolveProfile matches a profile by id prefix so nobody has to type a full
// uuid at the prompt. Ambiguous prefixes are an error, not a guess.
func (a *App) resolveProfile(ctx context.Context, prefix string) (student.Progress, error) {
	students, err := a.students.ListAll(ctx)
	if err != nil {
		return student.Progress{}, err
	}

	var matches []student.Progress
	for _, entry := range students {
		if strings.HasPrefix(entry.StudentID, prefix) {
			matches = append(matches, entry)
		}
	}

	switch len(matches) {
	case 0:
		return student.Progress{}, student.ErrStudentNotFound
	case 1:
		return matches[0], nil
	default:
		return student.Progress{}, fmt.Errorf("id prefix %q matches %d profiles", prefix, len(matches))
	}
}

func (a *App) runImport(ctx context.Context, out io.Writer, path string, replace bool) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	result, err := a.io.Import(ctx, contents, replace)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, result.Message)
	for _, importErr := range result.Errors {
		fmt.Fprintf(out, "  %s\n", importErr)
	}
	return nil
}

func (a *App) runExport(ctx context.Context, out io.Writer, path string) error {
	raw, filename, err := a.io.Export(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		path = filename
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported question bank to %s.\n", path)
	return nil
}

func (a *App) runSample(out io.Writer, path string) error {
	raw, err := json.MarshalIndent(a.io.SampleBank(), "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote sample question bank to %s.\n", path)
	return nil
}
