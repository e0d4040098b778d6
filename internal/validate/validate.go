// Package validate checks gradebook form submissions.
//
// Each check returns the i18n message ID of the error to show, or "" when the
// input is acceptable.
package validate

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pavelanni/gradebook/internal/model"
)

// Message IDs for validation failures.
const (
	MsgInvalidName    = "ErrorInvalidName"
	MsgMissingSubject = "ErrorMissingSubject"
	MsgInvalidNumQs   = "ErrorInvalidNumQuestions"
	MsgInvalidDate    = "ErrorInvalidDate"
	MsgChooseStudent  = "ErrorChooseStudent"
	MsgChooseQuiz     = "ErrorChooseQuiz"
	MsgInvalidGrade   = "ErrorInvalidGrade"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// StudentForm is the add-student submission.
type StudentForm struct {
	FirstName string `validate:"required,alpha"`
	LastName  string `validate:"required,alpha"`
}

// QuizForm is the add-quiz submission.
type QuizForm struct {
	Subject        string
	NumOfQuestions string
	Day            string
	Month          string
	Year           string
}

// Student checks that both names are letters only.
func Student(f StudentForm) string {
	if err := v.Struct(f); err != nil {
		return MsgInvalidName
	}
	return ""
}

// Quiz checks a quiz submission and, on success, returns the quiz to insert.
// Subject is checked first, then the question count, then the date.
func Quiz(f QuizForm) (model.Quiz, string) {
	var q model.Quiz
	if err := v.Var(f.Subject, "required"); err != nil {
		return q, MsgMissingSubject
	}
	if err := v.Var(f.NumOfQuestions, "required,number"); err != nil {
		return q, MsgInvalidNumQs
	}
	n, err := strconv.Atoi(f.NumOfQuestions)
	if err != nil {
		return q, MsgInvalidNumQs
	}
	date, ok := Date(f.Year, f.Month, f.Day)
	if !ok {
		return q, MsgInvalidDate
	}
	q.Subject = f.Subject
	q.NumOfQuestions = n
	q.Date = date
	return q, ""
}

// Date builds a calendar date from its parts. It rejects values time.Date
// would silently normalise, such as 30 February or month 13.
func Date(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1 || y > 9999 {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// Grade parses a grade as a finite floating-point number.
func Grade(s string) (float64, bool) {
	g, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(g) || math.IsInf(g, 0) {
		return 0, false
	}
	return g, true
}

// Selection parses a dropdown value. The sentinel NotSelected and anything
// that is not a positive integer count as no selection.
func Selection(s string) (int64, bool) {
	if s == model.NotSelected {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
