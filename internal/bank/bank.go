// Package bank owns the authored multiple-choice question collection and its
// quiz metadata. Every mutation rewrites the whole collection in the backing
// store; the bank is small enough that whole-collection writes stay cheap.
package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"daily-quiz/internal/storage"
)

const (
	questionBankKey = "questionBank"
	quizMetadataKey = "quizMetadata"

	defaultTitle = "CS Daily MCQ Quiz"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidQuestion  = errors.New("invalid question")
)

// Question is one authored multiple-choice question. CorrectAnswer indexes
// into Options. Timestamps are RFC 3339 strings assigned by the store.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Category      string   `json:"category,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// Metadata describes the bank as a whole; it travels with exports.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Draft carries the caller-supplied fields of a new question. ID and
// timestamps are assigned by the store, never by the caller.
type Draft struct {
	Question      string
	Options       []string
	CorrectAnswer int
	Explanation   string
	Category      string
	Difficulty    string
}

// Update carries a partial edit. Nil fields are left unchanged; ID and
// CreatedAt cannot be edited.
type Update struct {
	Question      *string
	Options       []string
	CorrectAnswer *int
	Explanation   *string
	Category      *string
	Difficulty    *string
}

type Store struct {
	kv  storage.KV
	now func() time.Time
	rng *rand.Rand
}

func NewStore(kv storage.KV) *Store {
	return NewStoreWithClock(kv, time.Now)
}

// NewStoreWithClock pins the store's notion of "now"; tests use it to make
// assigned timestamps deterministic.
func NewStoreWithClock(kv storage.KV, now func() time.Time) *Store {
	return &Store{
		kv:  kv,
		now: now,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// List returns every question in insertion order. A missing collection reads
// as empty, never as an error.
func (s *Store) List(ctx context.Context) ([]Question, error) {
	raw, err := s.kv.Get(ctx, questionBankKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return []Question{}, nil
		}
		return nil, err
	}

	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if questions == nil {
		questions = []Question{}
	}
	return questions, nil
}

// Add validates the draft, assigns a fresh id and timestamps, and appends it.
func (s *Store) Add(ctx context.Context, draft Draft) (Question, error) {
	question := Question{
		ID:            uuid.NewString(),
		Question:      draft.Question,
		Options:       append([]string(nil), draft.Options...),
		CorrectAnswer: draft.CorrectAnswer,
		Explanation:   draft.Explanation,
		Category:      draft.Category,
		Difficulty:    draft.Difficulty,
	}

	now := s.timestamp()
	question.CreatedAt = now
	question.UpdatedAt = now

	if err := checkInvariants(question); err != nil {
		return Question{}, err
	}

	questions, err := s.List(ctx)
	if err != nil {
		return Question{}, err
	}

	questions = append(questions, question)
	if err := s.save(ctx, questions); err != nil {
		return Question{}, err
	}
	return question, nil
}

// Update applies a partial edit to the question with the given id, preserving
// ID and CreatedAt and refreshing UpdatedAt.
func (s *Store) Update(ctx context.Context, id string, update Update) (Question, error) {
	questions, err := s.List(ctx)
	if err != nil {
		return Question{}, err
	}

	index := -1
	for idx := range questions {
		if questions[idx].ID == id {
			index = idx
			break
		}
	}
	if index == -1 {
		return Question{}, ErrQuestionNotFound
	}

	edited := questions[index]
	if update.Question != nil {
		edited.Question = *update.Question
	}
	if update.Options != nil {
		edited.Options = append([]string(nil), update.Options...)
	}
	if update.CorrectAnswer != nil {
		edited.CorrectAnswer = *update.CorrectAnswer
	}
	if update.Explanation != nil {
		edited.Explanation = *update.Explanation
	}
	if update.Category != nil {
		edited.Category = *update.Category
	}
	if update.Difficulty != nil {
		edited.Difficulty = *update.Difficulty
	}
	edited.UpdatedAt = s.timestamp()

	if err := checkInvariants(edited); err != nil {
		return Question{}, err
	}

	questions[index] = edited
	if err := s.save(ctx, questions); err != nil {
		return Question{}, err
	}
	return edited, nil
}

// Delete removes the question with the given id. It reports false when the id
// is absent, which is a normal outcome for the caller to check.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	questions, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	filtered := questions[:0]
	for _, question := range questions {
		if question.ID != id {
			filtered = append(filtered, question)
		}
	}
	if len(filtered) == len(questions) {
		return false, nil
	}

	if err := s.save(ctx, filtered); err != nil {
		return false, err
	}
	return true, nil
}

// RandomSample returns n distinct questions drawn uniformly, or the whole
// bank when it holds fewer than n.
func (s *Store) RandomSample(ctx context.Context, n int) ([]Question, error) {
	questions, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) <= n {
		return questions, nil
	}

	shuffled := append([]Question(nil), questions...)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n], nil
}

// ReplaceAll swaps the entire collection in one write. The import service uses
// it to apply a merged or replacement set.
func (s *Store) ReplaceAll(ctx context.Context, questions []Question) error {
	if questions == nil {
		questions = []Question{}
	}
	return s.save(ctx, questions)
}

// Metadata returns the bank metadata, synthesizing the default when none has
// been stored yet.
func (s *Store) Metadata(ctx context.Context) (Metadata, error) {
	raw, err := s.kv.Get(ctx, quizMetadataKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			now := s.timestamp()
			return Metadata{Title: defaultTitle, CreatedAt: now, UpdatedAt: now}, nil
		}
		return Metadata{}, err
	}

	var metadata Metadata
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("decode quiz metadata: %w", err)
	}
	return metadata, nil
}

// SetMetadata updates the bank title and description, preserving CreatedAt.
func (s *Store) SetMetadata(ctx context.Context, title, description string) (Metadata, error) {
	metadata, err := s.Metadata(ctx)
	if err != nil {
		return Metadata{}, err
	}

	metadata.Title = title
	metadata.Description = description
	metadata.UpdatedAt = s.timestamp()

	raw, err := json.Marshal(metadata)
	if err != nil {
		return Metadata{}, err
	}
	if err := s.kv.Set(ctx, quizMetadataKey, raw); err != nil {
		return Metadata{}, err
	}
	return metadata, nil
}

func (s *Store) save(ctx context.Context, questions []Question) error {
	raw, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, questionBankKey, raw); err != nil {
		return err
	}

	// Every bank write also refreshes the metadata timestamp.
	metadata, err := s.Metadata(ctx)
	if err != nil {
		return err
	}
	metadata.UpdatedAt = s.timestamp()

	rawMetadata, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, quizMetadataKey, rawMetadata)
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func checkInvariants(question Question) error {
	if question.Question == "" {
		return fmt.Errorf("%w: question text is required", ErrInvalidQuestion)
	}
	if len(question.Options) < 2 {
		return fmt.Errorf("%w: at least 2 options are required", ErrInvalidQuestion)
	}
	if question.CorrectAnswer < 0 || question.CorrectAnswer >= len(question.Options) {
		return fmt.Errorf("%w: correctAnswer %d is out of bounds for %d options",
			ErrInvalidQuestion, question.CorrectAnswer, len(question.Options))
	}
	switch question.Difficulty {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidQuestion, question.Difficulty)
	}
	return nil
}
