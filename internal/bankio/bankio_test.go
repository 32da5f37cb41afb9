package bankio

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-quiz/internal/bank"
	"daily-quiz/internal/storage"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *bank.Store) {
	t.Helper()

	bankStore := bank.NewStoreWithClock(storage.NewMemory(), fixedNow)
	return NewServiceWithClock(bankStore, fixedNow), bankStore
}

func wireQuestion(id, text string) map[string]any {
	return map[string]any{
		"id":            id,
		"question":      text,
		"options":       []string{"alpha", "beta", "gamma"},
		"correctAnswer": 1,
		"createdAt":     "2024-01-01T00:00:00Z",
		"updatedAt":     "2024-01-01T00:00:00Z",
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestImportBareArray(t *testing.T) {
	service, bankStore := newTestService(t)
	ctx := context.Background()

	contents := mustJSON(t, []any{
		wireQuestion("q-1", "First?"),
		wireQuestion("q-2", "Second?"),
	})

	result, err := service.Import(ctx, contents, false)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.ImportedCount)
	assert.Empty(t, result.Errors)

	questions, err := bankStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "q-1", questions[0].ID)
}

func TestImportSkipsInvalidAndReportsPosition(t *testing.T) {
	service, bankStore := newTestService(t)
	ctx := context.Background()

	outOfBounds := wireQuestion("q-bad", "Broken?")
	outOfBounds["correctAnswer"] = 9

	contents := mustJSON(t, []any{
		wireQuestion("q-good", "Fine?"),
		outOfBounds,
	})

	result, err := service.Import(ctx, contents, false)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.ImportedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "question 2:")

	questions, err := bankStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "q-good", questions[0].ID)
}

func TestImportRejections(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		message  string
	}{
		{name: "empty file", contents: "   ", message: "File is empty or could not be read."},
		{name: "not json", contents: "{nope", message: "Invalid JSON format. Please check your file."},
		{name: "wrong shape", contents: `{"title":"x"}`, message: "Invalid file format. Expected question bank or questions array."},
		{name: "scalar", contents: `42`, message: "Invalid file format. Expected question bank or questions array."},
	}

	service, _ := newTestService(t)
	ctx := context.Background()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := service.Import(ctx, []byte(tc.contents), false)
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.Equal(t, tc.message, result.Message)
		})
	}
}

func TestImportAllInvalidFails(t *testing.T) {
	service, bankStore := newTestService(t)
	ctx := context.Background()

	short := wireQuestion("q-1", "Too few options")
	short["options"] = []string{"only"}
	short["correctAnswer"] = 0

	result, err := service.Import(ctx, mustJSON(t, []any{short}), false)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "No valid questions found in the file.", result.Message)
	require.Len(t, result.Errors, 1)

	questions, err := bankStore.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestImportValidationCases(t *testing.T) {
	mutate := func(field string, value any) map[string]any {
		question := wireQuestion("q-x", "Mutant?")
		question[field] = value
		return question
	}

	tests := []struct {
		name     string
		question map[string]any
	}{
		{name: "missing id", question: mutate("id", "")},
		{name: "missing question text", question: mutate("question", "")},
		{name: "options wrong type", question: mutate("options", "a,b,c")},
		{name: "correctAnswer wrong type", question: mutate("correctAnswer", "one")},
		{name: "negative correctAnswer", question: mutate("correctAnswer", -1)},
		{name: "bad difficulty", question: mutate("difficulty", "impossible")},
		{name: "bad createdAt", question: mutate("createdAt", "yesterday")},
		{name: "missing updatedAt", question: mutate("updatedAt", "")},
	}

	service, _ := newTestService(t)
	ctx := context.Background()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := service.Import(ctx, mustJSON(t, []any{tc.question}), false)
			require.NoError(t, err)
			assert.False(t, result.Success, "question should have been rejected")
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], "question 1:")
		})
	}
}

func TestImportReplaceDiscardsExistingBank(t *testing.T) {
	service, bankStore := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := bankStore.Add(ctx, bank.Draft{
			Question:      fmt.Sprintf("Existing %d?", i),
			Options:       []string{"a", "b"},
			CorrectAnswer: 0,
		})
		require.NoError(t, err)
	}

	contents := mustJSON(t, map[string]any{
		"questions": []any{
			wireQuestion("n-1", "New one?"),
			wireQuestion("n-2", "New two?"),
		},
		"metadata": map[string]any{
			"title":     "Replacement Set",
			"createdAt": "2024-01-01T00:00:00Z",
			"updatedAt": "2024-01-01T00:00:00Z",
		},
	})

	result, err := service.Import(ctx, contents, true)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.ImportedCount)

	questions, err := bankStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 2, "replace must discard the prior bank, not union with it")
}

func TestImportCollidingIDGetsFreshIdentity(t *testing.T) {
	service, bankStore := newTestService(t)
	ctx := context.Background()

	existing, err := bankStore.Add(ctx, bank.Draft{
		Question:      "Existing?",
		Options:       []string{"a", "b"},
		CorrectAnswer: 0,
	})
	require.NoError(t, err)

	colliding := wireQuestion(existing.ID, "Impostor?")
	result, err := service.Import(ctx, mustJSON(t, []any{colliding}), false)
	require.NoError(t, err)
	assert.True(t, result.Success)

	questions, err := bankStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Existing?", questions[0].Question, "existing question must not be overwritten")
	assert.NotEqual(t, existing.ID, questions[1].ID, "collision must be re-keyed")
	assert.Equal(t, "2024-03-10T09:00:00Z", questions[1].CreatedAt, "re-keyed import gets fresh timestamps")
}

func TestExportImportRoundTrip(t *testing.T) {
	service, bankStore := newTestService(t)
	ctx := context.Background()

	seeded := service.SampleBank()
	require.NoError(t, bankStore.ReplaceAll(ctx, seeded.Questions))

	raw, filename, err := service.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cs_daily_mcq_quiz_questions.json", filename)

	var envelope QuestionBank
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Len(t, envelope.Questions, 5)
	assert.Contains(t, envelope.Metadata.Description, "5 questions")

	result, err := service.Import(ctx, raw, true)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 5, result.ImportedCount)
	assert.Empty(t, result.Errors)

	questions, err := bankStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 5)
	for idx := range questions {
		assert.Equal(t, seeded.Questions[idx].ID, questions[idx].ID, "ids must survive a round trip")
		assert.Equal(t, seeded.Questions[idx].Question, questions[idx].Question)
	}
}

func TestExportFilenameSanitization(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "CS Daily MCQ Quiz", want: "cs_daily_mcq_quiz_questions.json"},
		{title: "Weird/Name: 2024!", want: "weird_name__2024__questions.json"},
		{title: "already_clean", want: "already_clean_questions.json"},
	}

	for _, tc := range tests {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, exportFilename(tc.title))
		})
	}
}

func TestSampleBankIsImportable(t *testing.T) {
	service, bankStore := newTestService(t)
	ctx := context.Background()

	sample := service.SampleBank()
	require.Len(t, sample.Questions, 5)

	result, err := service.Import(ctx, mustJSON(t, sample), true)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 5, result.ImportedCount)
	assert.Empty(t, result.Errors, "every sample question must pass validation")

	questions, err := bankStore.List(ctx)
	require.NoError(t, err)
	assert.Len(t, questions, 5)
}
