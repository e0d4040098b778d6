// Package views renders gradebook pages as templ components.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/gradebook/internal/i18n"
	"github.com/pavelanni/gradebook/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Funcs are replaced per render so that translations follow the request's language.
var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"t":        func(string) string { return "" },
	"td":       func(string, ...any) string { return "" },
	"tp":       func(string, int) string { return "" },
	"csrf":     func() string { return "" },
	"username": func() string { return "" },
	"grade":    formatGrade,
}).ParseFS(templateFS, "templates/*.html"))

func formatGrade(g float64) string {
	return fmt.Sprintf("%g", g)
}

func requestFuncs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"t": func(id string) string { return appI18n.T(ctx, id) },
		"td": func(id string, kv ...any) string {
			data := make(map[string]any, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				data[fmt.Sprint(kv[i])] = kv[i+1]
			}
			return appI18n.Td(ctx, id, data)
		},
		"tp":       func(id string, n int) string { return appI18n.Tp(ctx, id, n) },
		"csrf":     func() string { return model.CSRFTokenFromContext(ctx) },
		"username": func() string { return model.UsernameFromContext(ctx) },
	}
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, err := pages.Clone()
		if err != nil {
			return err
		}
		return t.Funcs(requestFuncs(ctx)).ExecuteTemplate(w, name, data)
	})
}

// LoginData feeds the login form.
type LoginData struct {
	Error string
}

// LoginPage renders the login form with an optional error message.
func LoginPage(errMsg string) templ.Component {
	return page("login.html", LoginData{Error: errMsg})
}

// DashboardData feeds the dashboard.
type DashboardData struct {
	Students []model.Student
	Quizzes  []model.Quiz
}

// DashboardPage lists every student and quiz.
func DashboardPage(students []model.Student, quizzes []model.Quiz) templ.Component {
	return page("dashboard.html", DashboardData{Students: students, Quizzes: quizzes})
}

// FormData feeds the add-student and add-quiz forms.
type FormData struct {
	Error string
}

// AddStudentPage renders the add-student form with an optional error message.
func AddStudentPage(errMsg string) templ.Component {
	return page("add_student.html", FormData{Error: errMsg})
}

// AddQuizPage renders the add-quiz form with an optional error message.
func AddQuizPage(errMsg string) templ.Component {
	return page("add_quiz.html", FormData{Error: errMsg})
}

// AddResultData feeds the add-result form.
type AddResultData struct {
	Students    []model.Student
	Quizzes     []model.Quiz
	NotSelected string
	Error       string
}

// AddResultPage renders the add-result form with student and quiz choices.
func AddResultPage(students []model.Student, quizzes []model.Quiz, errMsg string) templ.Component {
	return page("add_result.html", AddResultData{
		Students:    students,
		Quizzes:     quizzes,
		NotSelected: model.NotSelected,
		Error:       errMsg,
	})
}

// QuizResultsPage renders the public, anonymous leaderboard for one quiz.
func QuizResultsPage(view model.QuizResultsView) templ.Component {
	return page("quiz_results.html", view)
}

// StudentPage renders one student's grade report.
func StudentPage(report model.StudentReport) templ.Component {
	return page("student.html", report)
}

// NotFoundPage renders a 404 body with a message.
func NotFoundPage(msg string) templ.Component {
	return page("not_found.html", FormData{Error: msg})
}
