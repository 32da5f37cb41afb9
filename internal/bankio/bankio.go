// Package bankio imports and exports the question bank as JSON files. Import
// is tolerant: invalid questions are skipped and reported per position while
// the valid remainder still lands.
package bankio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"daily-quiz/internal/bank"
)

// QuestionBank is the export envelope: the full collection plus metadata.
type QuestionBank struct {
	Questions []bank.Question `json:"questions"`
	Metadata  bank.Metadata   `json:"metadata"`
}

// ImportResult reports the outcome of one import attempt.
type ImportResult struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	ImportedCount int      `json:"importedCount,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

type Service struct {
	bank     *bank.Store
	validate *questionValidator
	now      func() time.Time
}

func NewService(bankStore *bank.Store) *Service {
	return NewServiceWithClock(bankStore, time.Now)
}

func NewServiceWithClock(bankStore *bank.Store, now func() time.Time) *Service {
	return &Service{
		bank:     bankStore,
		validate: newQuestionValidator(),
		now:      now,
	}
}

// Export serializes the full bank envelope and returns it together with the
// download filename derived from the sanitized bank title.
func (s *Service) Export(ctx context.Context) ([]byte, string, error) {
	questions, err := s.bank.List(ctx)
	if err != nil {
		return nil, "", err
	}
	metadata, err := s.bank.Metadata(ctx)
	if err != nil {
		return nil, "", err
	}

	envelope := QuestionBank{
		Questions: questions,
		Metadata: bank.Metadata{
			Title:       metadata.Title,
			Description: fmt.Sprintf("Exported question bank with %d questions", len(questions)),
			CreatedAt:   metadata.CreatedAt,
			UpdatedAt:   s.now().UTC().Format(time.RFC3339),
		},
	}

	raw, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return raw, exportFilename(metadata.Title), nil
}

// Import parses the file contents, validates every candidate question, and
// applies the merge policy: replace the whole bank, or union with it. An
// imported id that collides with an existing one gets a fresh id and fresh
// timestamps rather than overwriting in place.
func (s *Service) Import(ctx context.Context, contents []byte, replaceExisting bool) (ImportResult, error) {
	if len(bytes.TrimSpace(contents)) == 0 {
		return ImportResult{Success: false, Message: "File is empty or could not be read."}, nil
	}

	candidates, ok := decodeCandidates(contents)
	if !ok {
		if !json.Valid(contents) {
			return ImportResult{Success: false, Message: "Invalid JSON format. Please check your file."}, nil
		}
		return ImportResult{Success: false, Message: "Invalid file format. Expected question bank or questions array."}, nil
	}

	var (
		valid      []bank.Question
		importErrs []string
	)
	for idx, raw := range candidates {
		question, err := s.decodeQuestion(raw)
		if err != nil {
			importErrs = append(importErrs, fmt.Sprintf("question %d: %v", idx+1, err))
			continue
		}
		valid = append(valid, question)
	}

	if len(valid) == 0 {
		return ImportResult{
			Success: false,
			Message: "No valid questions found in the file.",
			Errors:  importErrs,
		}, nil
	}

	var existing []bank.Question
	if !replaceExisting {
		var err error
		existing, err = s.bank.List(ctx)
		if err != nil {
			return ImportResult{}, err
		}
	}

	existingIDs := make(map[string]bool, len(existing))
	for _, question := range existing {
		existingIDs[question.ID] = true
	}

	now := s.now().UTC().Format(time.RFC3339)
	for idx := range valid {
		if existingIDs[valid[idx].ID] {
			valid[idx].ID = uuid.NewString()
			valid[idx].CreatedAt = now
			valid[idx].UpdatedAt = now
		}
	}

	if err := s.bank.ReplaceAll(ctx, append(existing, valid...)); err != nil {
		return ImportResult{}, err
	}

	message := fmt.Sprintf("Successfully imported %d questions.", len(valid))
	if len(importErrs) > 0 {
		message += fmt.Sprintf(" %d questions were skipped due to errors.", len(importErrs))
	}
	return ImportResult{
		Success:       true,
		Message:       message,
		ImportedCount: len(valid),
		Errors:        importErrs,
	}, nil
}

// decodeCandidates accepts either the full envelope or a bare question array
// and returns the raw per-question payloads.
func decodeCandidates(contents []byte) ([]json.RawMessage, bool) {
	var asArray []json.RawMessage
	if err := json.Unmarshal(contents, &asArray); err == nil {
		return asArray, true
	}

	var asEnvelope struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(contents, &asEnvelope); err == nil && asEnvelope.Questions != nil {
		return asEnvelope.Questions, true
	}
	return nil, false
}

func (s *Service) decodeQuestion(raw json.RawMessage) (bank.Question, error) {
	var candidate importedQuestion
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return bank.Question{}, fmt.Errorf("invalid format or missing required fields")
	}
	if err := s.validate.Check(candidate); err != nil {
		return bank.Question{}, err
	}

	return bank.Question{
		ID:            candidate.ID,
		Question:      candidate.Question,
		Options:       candidate.Options,
		CorrectAnswer: *candidate.CorrectAnswer,
		Explanation:   candidate.Explanation,
		Category:      candidate.Category,
		Difficulty:    candidate.Difficulty,
		CreatedAt:     candidate.CreatedAt,
		UpdatedAt:     candidate.UpdatedAt,
	}, nil
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

func exportFilename(title string) string {
	sanitized := strings.ToLower(filenameSanitizer.ReplaceAllString(title, "_"))
	return sanitized + "_questions.json"
}
