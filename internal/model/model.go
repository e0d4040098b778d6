package model

import (
	"context"
	"fmt"
	"time"
)

// DateLayout is the storage and display format for quiz dates.
const DateLayout = "2006-01-02"

// NotSelected is the option value the result form uses for "nothing chosen".
const NotSelected = "not_allowed"

// Student is a row of the Students table.
type Student struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns "First Last".
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Quiz is a row of the Quizzes table.
type Quiz struct {
	ID             int64     `json:"id"`
	Subject        string    `json:"subject"`
	NumOfQuestions int       `json:"num_of_questions"`
	Date           time.Time `json:"date"`
}

// Label is how a quiz appears in selection lists: "ID. Subject".
func (q Quiz) Label() string {
	return fmt.Sprintf("%d. %s", q.ID, q.Subject)
}

// DateString formats the quiz date as YYYY-MM-DD.
func (q Quiz) DateString() string {
	return q.Date.Format(DateLayout)
}

// Result is a row of the Student_Results table.
type Result struct {
	StudentID int64   `json:"student_id"`
	QuizID    int64   `json:"quiz_id"`
	Grade     float64 `json:"grade"`
}

// AnonymousResult is one line of the public per-quiz leaderboard.
// It carries the student ID only, never the name.
type AnonymousResult struct {
	StudentID      int64
	QuizID         int64
	Subject        string
	Date           string
	NumOfQuestions int
	Grade          float64
}

// QuizResultsView is everything the anonymous results page needs.
type QuizResultsView struct {
	QuizID       int64
	Results      []AnonymousResult
	HasResults   bool
	ValidQuizIDs []int64
}

// StudentGrade is one quiz result on a student's report.
type StudentGrade struct {
	QuizID  int64
	Subject string
	Date    string
	Grade   float64
}

// StudentReport is a student's name plus all of their results.
type StudentReport struct {
	Student    Student
	Grades     []StudentGrade
	HasResults bool
}

// Gradebook is the full export document.
type Gradebook struct {
	ExportedAt time.Time `json:"exported_at"`
	Students   []Student `json:"students"`
	Quizzes    []Quiz    `json:"quizzes"`
	Results    []Result  `json:"results"`
}

// Config holds runtime web settings set via CLI flags.
type Config struct {
	SecureCookies bool   // Set Secure flag on cookies (disable for local dev)
	SessionSecret string // HMAC key for the session cookie
}

type userCtxKey struct{}

// ContextWithUsername stores the authenticated username in the request context.
func ContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userCtxKey{}, username)
}

// UsernameFromContext retrieves the authenticated username, or "".
func UsernameFromContext(ctx context.Context) string {
	u, _ := ctx.Value(userCtxKey{}).(string)
	return u
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}
