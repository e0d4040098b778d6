package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/gradebook/internal/auth"
	"github.com/pavelanni/gradebook/internal/handler/views"
	appI18n "github.com/pavelanni/gradebook/internal/i18n"
	"github.com/pavelanni/gradebook/internal/metrics"
	"github.com/pavelanni/gradebook/internal/model"
	"github.com/pavelanni/gradebook/internal/store"
	"github.com/pavelanni/gradebook/internal/validate"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	auth     auth.Authenticator
	sessions *auth.Sessions
	config   model.Config
}

// New creates a new Handler.
func New(s *store.Store, a auth.Authenticator, cfg model.Config) (*Handler, error) {
	sessions, err := auth.NewSessions(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	return &Handler{store: s, auth: a, sessions: sessions, config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	// Public on purpose: the leaderboard shows student IDs, never names.
	r.Get("/quiz/{quizID}/results", h.handleQuizResults)
	r.Post("/quiz/{quizID}/results", h.handleQuizResults)

	r.Get("/", h.handleIndex)
	r.Get("/logout", h.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(h.csrfMiddleware)
		r.Get("/login", h.handleLogin)
		r.Post("/login", h.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Use(h.csrfMiddleware)

		getPost(r, "/dashboard", h.handleDashboard)
		getPost(r, "/student/add", h.handleAddStudent)
		getPost(r, "/student/delete", h.handleDeleteStudent)
		getPost(r, "/student/{studentID}", h.handleStudentDetail)
		getPost(r, "/quiz/add", h.handleAddQuiz)
		getPost(r, "/quiz/delete", h.handleDeleteQuiz)
		getPost(r, "/results/add", h.handleAddResult)
		getPost(r, "/results/delete", h.handleDeleteResult)
	})
}

func getPost(r chi.Router, pattern string, fn http.HandlerFunc) {
	r.Get(pattern, fn)
	r.Post(pattern, fn)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

// submitted reports whether every named field is present in the POST body.
// A missing field means the form is being shown for the first time.
func submitted(r *http.Request, fields ...string) bool {
	if err := r.ParseForm(); err != nil {
		return false
	}
	for _, f := range fields {
		if _, ok := r.PostForm[f]; !ok {
			return false
		}
	}
	return true
}

func formID(r *http.Request, field string) (int64, error) {
	if err := r.ParseForm(); err != nil {
		return 0, err
	}
	return strconv.ParseInt(r.PostForm.Get(field), 10, 64)
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(); err != nil {
		slog.Error("health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents()
	if err != nil {
		h.serverError(w, "failed to list students", err)
		return
	}
	quizzes, err := h.store.ListQuizzes()
	if err != nil {
		h.serverError(w, "failed to list quizzes", err)
		return
	}
	h.render(w, r, http.StatusOK, views.DashboardPage(students, quizzes))
}

func (h *Handler) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	if !submitted(r, "fname", "lname") {
		h.render(w, r, http.StatusOK, views.AddStudentPage(""))
		return
	}

	form := validate.StudentForm{
		FirstName: r.PostForm.Get("fname"),
		LastName:  r.PostForm.Get("lname"),
	}
	if msg := validate.Student(form); msg != "" {
		metrics.Rejected(msg)
		h.render(w, r, http.StatusOK, views.AddStudentPage(appI18n.T(r.Context(), msg)))
		return
	}

	if _, err := h.store.CreateStudent(form.FirstName, form.LastName); err != nil {
		h.serverError(w, "failed to create student", err)
		return
	}
	metrics.Write("student", "create")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := formID(r, "student_id")
	if err != nil {
		http.Error(w, "invalid student ID", http.StatusBadRequest)
		return
	}
	if err := h.store.DeleteStudent(id); err != nil {
		h.serverError(w, "failed to delete student", err)
		return
	}
	metrics.Write("student", "delete")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleAddQuiz(w http.ResponseWriter, r *http.Request) {
	if !submitted(r, "subject", "numOfQuestions", "day", "month", "year") {
		h.render(w, r, http.StatusOK, views.AddQuizPage(""))
		return
	}

	quiz, msg := validate.Quiz(validate.QuizForm{
		Subject:        r.PostForm.Get("subject"),
		NumOfQuestions: r.PostForm.Get("numOfQuestions"),
		Day:            r.PostForm.Get("day"),
		Month:          r.PostForm.Get("month"),
		Year:           r.PostForm.Get("year"),
	})
	if msg != "" {
		metrics.Rejected(msg)
		h.render(w, r, http.StatusOK, views.AddQuizPage(appI18n.T(r.Context(), msg)))
		return
	}

	if _, err := h.store.CreateQuiz(quiz); err != nil {
		h.serverError(w, "failed to create quiz", err)
		return
	}
	metrics.Write("quiz", "create")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := formID(r, "quiz_id")
	if err != nil {
		http.Error(w, "invalid quiz ID", http.StatusBadRequest)
		return
	}
	if err := h.store.DeleteQuiz(id); err != nil {
		h.serverError(w, "failed to delete quiz", err)
		return
	}
	metrics.Write("quiz", "delete")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleAddResult(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents()
	if err != nil {
		h.serverError(w, "failed to list students", err)
		return
	}
	quizzes, err := h.store.ListQuizzes()
	if err != nil {
		h.serverError(w, "failed to list quizzes", err)
		return
	}

	if !submitted(r, "student", "quiz", "grade") {
		h.render(w, r, http.StatusOK, views.AddResultPage(students, quizzes, ""))
		return
	}

	result, msg, err := h.parseResult(r)
	if err != nil {
		h.serverError(w, "failed to check result form", err)
		return
	}
	if msg != "" {
		metrics.Rejected(msg)
		h.render(w, r, http.StatusOK, views.AddResultPage(students, quizzes, appI18n.T(r.Context(), msg)))
		return
	}

	if err := h.store.AddResult(result); err != nil {
		h.serverError(w, "failed to add result", err)
		return
	}
	metrics.Write("result", "create")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// parseResult validates the add-result form. Student and quiz must be chosen
// and must exist; the grade must be a number.
func (h *Handler) parseResult(r *http.Request) (model.Result, string, error) {
	var res model.Result

	studentID, ok := validate.Selection(r.PostForm.Get("student"))
	if !ok {
		return res, validate.MsgChooseStudent, nil
	}
	if _, err := h.store.GetStudent(studentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return res, validate.MsgChooseStudent, nil
		}
		return res, "", err
	}

	quizID, ok := validate.Selection(r.PostForm.Get("quiz"))
	if !ok {
		return res, validate.MsgChooseQuiz, nil
	}
	if _, err := h.store.GetQuiz(quizID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return res, validate.MsgChooseQuiz, nil
		}
		return res, "", err
	}

	grade, ok := validate.Grade(r.PostForm.Get("grade"))
	if !ok {
		return res, validate.MsgInvalidGrade, nil
	}

	return model.Result{StudentID: studentID, QuizID: quizID, Grade: grade}, "", nil
}

func (h *Handler) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	studentID, err := formID(r, "student_id")
	if err != nil {
		http.Error(w, "invalid student ID", http.StatusBadRequest)
		return
	}
	quizID, err := formID(r, "quiz_id")
	if err != nil {
		http.Error(w, "invalid quiz ID", http.StatusBadRequest)
		return
	}
	grade, ok := validate.Grade(r.PostForm.Get("grade"))
	if !ok {
		http.Error(w, "invalid grade", http.StatusBadRequest)
		return
	}

	removed, err := h.store.DeleteResult(model.Result{StudentID: studentID, QuizID: quizID, Grade: grade})
	if err != nil {
		h.serverError(w, "failed to delete result", err)
		return
	}
	if removed {
		metrics.Write("result", "delete")
	}
	http.Redirect(w, r, fmt.Sprintf("/student/%d", studentID), http.StatusSeeOther)
}

func (h *Handler) handleQuizResults(w http.ResponseWriter, r *http.Request) {
	quizID, err := strconv.ParseInt(chi.URLParam(r, "quizID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid quiz ID", http.StatusBadRequest)
		return
	}

	view, err := h.store.GetQuizResults(quizID)
	if err != nil {
		h.serverError(w, "failed to load quiz results", err)
		return
	}
	h.render(w, r, http.StatusOK, views.QuizResultsPage(*view))
}

func (h *Handler) handleStudentDetail(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(chi.URLParam(r, "studentID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid student ID", http.StatusBadRequest)
		return
	}

	report, err := h.store.GetStudentReport(studentID)
	if errors.Is(err, store.ErrNotFound) {
		h.render(w, r, http.StatusNotFound, views.NotFoundPage(appI18n.T(r.Context(), "StudentNotFound")))
		return
	}
	if err != nil {
		h.serverError(w, "failed to load student report", err)
		return
	}
	h.render(w, r, http.StatusOK, views.StudentPage(*report))
}
