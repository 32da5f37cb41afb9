package bankio

import (
	"time"

	"github.com/google/uuid"

	"daily-quiz/internal/bank"
)

// SampleBank produces a small well-formed question bank teachers can use as
// an import template. Pure data; ids and timestamps are fresh per call.
func (s *Service) SampleBank() QuestionBank {
	now := s.now().UTC().Format(time.RFC3339)

	stamp := func(question bank.Question) bank.Question {
		question.ID = uuid.NewString()
		question.CreatedAt = now
		question.UpdatedAt = now
		return question
	}

	return QuestionBank{
		Questions: []bank.Question{
			stamp(bank.Question{
				Question: "What does HTML stand for?",
				Options: []string{
					"Hyper Text Markup Language",
					"High Tech Modern Language",
					"Home Tool Markup Language",
					"Hyperlink and Text Markup Language",
				},
				CorrectAnswer: 0,
				Explanation:   "HTML stands for Hyper Text Markup Language, which is the standard markup language for creating web pages.",
				Category:      "Web Development",
				Difficulty:    bank.DifficultyEasy,
			}),
			stamp(bank.Question{
				Question:      "Which of the following is NOT a JavaScript data type?",
				Options:       []string{"String", "Boolean", "Float", "Undefined"},
				CorrectAnswer: 2,
				Explanation:   "JavaScript doesn't have a specific 'Float' data type. Numbers in JavaScript are all stored as double-precision floating-point numbers.",
				Category:      "JavaScript",
				Difficulty:    bank.DifficultyMedium,
			}),
			stamp(bank.Question{
				Question:      "What is the time complexity of binary search?",
				Options:       []string{"O(n)", "O(log n)", "O(n²)", "O(1)"},
				CorrectAnswer: 1,
				Explanation:   "Binary search has O(log n) time complexity because it eliminates half of the remaining elements in each step.",
				Category:      "Algorithms",
				Difficulty:    bank.DifficultyMedium,
			}),
			stamp(bank.Question{
				Question:      "Which CSS property is used to change the text color?",
				Options:       []string{"font-color", "text-color", "color", "foreground-color"},
				CorrectAnswer: 2,
				Explanation:   "The 'color' property in CSS is used to set the color of text content.",
				Category:      "CSS",
				Difficulty:    bank.DifficultyEasy,
			}),
			stamp(bank.Question{
				Question: "What does SQL stand for?",
				Options: []string{
					"Structured Query Language",
					"Simple Query Language",
					"Standard Query Language",
					"Sequential Query Language",
				},
				CorrectAnswer: 0,
				Explanation:   "SQL stands for Structured Query Language, used for managing and manipulating relational databases.",
				Category:      "Database",
				Difficulty:    bank.DifficultyEasy,
			}),
		},
		Metadata: bank.Metadata{
			Title:       "Sample Computer Science Questions",
			Description: "A collection of sample questions covering web development, programming, and computer science fundamentals.",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
