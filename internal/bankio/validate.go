package bankio

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// importedQuestion mirrors the wire shape of a question. CorrectAnswer is a
// pointer so index 0 survives the required check.
type importedQuestion struct {
	ID            string   `json:"id" validate:"required"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2"`
	CorrectAnswer *int     `json:"correctAnswer" validate:"required"`
	Explanation   string   `json:"explanation"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	CreatedAt     string   `json:"createdAt" validate:"required,rfc3339"`
	UpdatedAt     string   `json:"updatedAt" validate:"required,rfc3339"`
}

// questionValidator wraps go-playground validator with the rules a candidate
// question must satisfy before it may enter the bank.
type questionValidator struct {
	validate *validator.Validate
}

func newQuestionValidator() *questionValidator {
	v := validator.New()

	_ = v.RegisterValidation("rfc3339", validateRFC3339)
	v.RegisterStructValidation(validateAnswerBounds, importedQuestion{})

	return &questionValidator{validate: v}
}

// Check returns a human-readable reason when the question is invalid.
func (qv *questionValidator) Check(question importedQuestion) error {
	if err := qv.validate.Struct(question); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("field %s failed %q validation", fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return err
	}
	return nil
}

func validateRFC3339(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.RFC3339, fl.Field().String())
	return err == nil
}

func validateAnswerBounds(sl validator.StructLevel) {
	question := sl.Current().Interface().(importedQuestion)
	if question.CorrectAnswer == nil {
		return
	}
	if *question.CorrectAnswer < 0 || *question.CorrectAnswer >= len(question.Options) {
		sl.ReportError(question.CorrectAnswer, "CorrectAnswer", "correctAnswer", "answer_in_range", "")
	}
}
