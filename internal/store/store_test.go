package store

import (
	"errors"
	"testing"
	"time"

	"github.com/pavelanni/gradebook/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestStudent(t *testing.T, s *Store, first, last string) int64 {
	t.Helper()
	id, err := s.CreateStudent(first, last)
	if err != nil {
		t.Fatalf("insertTestStudent: %v", err)
	}
	return id
}

func insertTestQuiz(t *testing.T, s *Store, subject string, date string) int64 {
	t.Helper()
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	id, err := s.CreateQuiz(model.Quiz{Subject: subject, NumOfQuestions: 10, Date: d})
	if err != nil {
		t.Fatalf("insertTestQuiz: %v", err)
	}
	return id
}

func addTestResult(t *testing.T, s *Store, studentID, quizID int64, grade float64) {
	t.Helper()
	if err := s.AddResult(model.Result{StudentID: studentID, QuizID: quizID, Grade: grade}); err != nil {
		t.Fatalf("AddResult: %v", err)
	}
}

func TestStudentCRUD(t *testing.T) {
	s := newTestStore(t)

	count, err := s.StudentCount()
	if err != nil {
		t.Fatalf("StudentCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 students, got %d", count)
	}

	id := insertTestStudent(t, s, "Jane", "Doe")
	st, err := s.GetStudent(id)
	if err != nil {
		t.Fatalf("GetStudent: %v", err)
	}
	if st.FirstName != "Jane" || st.LastName != "Doe" {
		t.Errorf("expected Jane Doe, got %q %q", st.FirstName, st.LastName)
	}
	if st.FullName() != "Jane Doe" {
		t.Errorf("FullName() = %q", st.FullName())
	}

	_, err = s.GetStudent(9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	insertTestStudent(t, s, "John", "Smith")
	list, err := s.ListStudents()
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 students, got %d", len(list))
	}
	if list[0].ID > list[1].ID {
		t.Error("students not ordered by ID")
	}
}

func TestQuizCRUD(t *testing.T) {
	s := newTestStore(t)

	id := insertTestQuiz(t, s, "Math", "2024-02-15")
	q, err := s.GetQuiz(id)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if q.Subject != "Math" {
		t.Errorf("expected subject Math, got %q", q.Subject)
	}
	if q.NumOfQuestions != 10 {
		t.Errorf("expected 10 questions, got %d", q.NumOfQuestions)
	}
	if q.DateString() != "2024-02-15" {
		t.Errorf("expected date 2024-02-15, got %q", q.DateString())
	}
	if q.Label() != "1. Math" {
		t.Errorf("Label() = %q", q.Label())
	}

	if _, err := s.GetQuiz(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	insertTestQuiz(t, s, "History", "2024-03-01")
	ids, err := s.ListQuizIDs()
	if err != nil {
		t.Fatalf("ListQuizIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] >= ids[1] {
		t.Errorf("expected two ascending IDs, got %v", ids)
	}
}

func TestDeleteStudentCascades(t *testing.T) {
	s := newTestStore(t)

	jane := insertTestStudent(t, s, "Jane", "Doe")
	john := insertTestStudent(t, s, "John", "Smith")
	math := insertTestQuiz(t, s, "Math", "2024-02-15")
	addTestResult(t, s, jane, math, 8.5)
	addTestResult(t, s, jane, math, 9)
	addTestResult(t, s, john, math, 7)

	if err := s.DeleteStudent(jane); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}

	if _, err := s.GetStudent(jane); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected deleted student to be gone, got %v", err)
	}
	results, err := s.ListResults()
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(results) != 1 || results[0].StudentID != john {
		t.Errorf("expected only John's result to remain, got %+v", results)
	}
	if _, err := s.GetStudent(john); err != nil {
		t.Errorf("other student should survive: %v", err)
	}

	// Unknown ID is a no-op.
	if err := s.DeleteStudent(9999); err != nil {
		t.Errorf("DeleteStudent unknown: %v", err)
	}
}

func TestDeleteQuizCascades(t *testing.T) {
	s := newTestStore(t)

	jane := insertTestStudent(t, s, "Jane", "Doe")
	math := insertTestQuiz(t, s, "Math", "2024-02-15")
	hist := insertTestQuiz(t, s, "History", "2024-03-01")
	addTestResult(t, s, jane, math, 8.5)
	addTestResult(t, s, jane, hist, 6)

	if err := s.DeleteQuiz(math); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}

	count, _ := s.QuizCount()
	if count != 1 {
		t.Errorf("expected 1 quiz, got %d", count)
	}
	results, _ := s.ListResults()
	if len(results) != 1 || results[0].QuizID != hist {
		t.Errorf("expected only the History result to remain, got %+v", results)
	}
}

func TestDeleteResultRemovesOneRow(t *testing.T) {
	s := newTestStore(t)

	jane := insertTestStudent(t, s, "Jane", "Doe")
	math := insertTestQuiz(t, s, "Math", "2024-02-15")
	addTestResult(t, s, jane, math, 8.5)
	addTestResult(t, s, jane, math, 8.5)
	addTestResult(t, s, jane, math, 4)

	removed, err := s.DeleteResult(model.Result{StudentID: jane, QuizID: math, Grade: 8.5})
	if err != nil {
		t.Fatalf("DeleteResult: %v", err)
	}
	if !removed {
		t.Error("expected a row to be removed")
	}
	count, _ := s.ResultCount()
	if count != 2 {
		t.Errorf("expected 2 results left, got %d", count)
	}

	removed, err = s.DeleteResult(model.Result{StudentID: jane, QuizID: math, Grade: 1})
	if err != nil {
		t.Fatalf("DeleteResult no match: %v", err)
	}
	if removed {
		t.Error("expected nothing removed for a non-matching grade")
	}
}

func TestGetQuizResults(t *testing.T) {
	s := newTestStore(t)

	jane := insertTestStudent(t, s, "Jane", "Doe")
	john := insertTestStudent(t, s, "John", "Smith")
	math := insertTestQuiz(t, s, "Math", "2024-02-15")
	empty := insertTestQuiz(t, s, "Art", "2024-04-01")
	addTestResult(t, s, jane, math, 6)
	addTestResult(t, s, john, math, 9.5)

	view, err := s.GetQuizResults(math)
	if err != nil {
		t.Fatalf("GetQuizResults: %v", err)
	}
	if !view.HasResults || len(view.Results) != 2 {
		t.Fatalf("expected 2 results, got %+v", view)
	}
	if view.Results[0].StudentID != john || view.Results[0].Grade != 9.5 {
		t.Errorf("expected highest grade first, got %+v", view.Results[0])
	}
	if view.Results[0].Subject != "Math" || view.Results[0].Date != "2024-02-15" || view.Results[0].NumOfQuestions != 10 {
		t.Errorf("quiz metadata not joined: %+v", view.Results[0])
	}
	if len(view.ValidQuizIDs) != 2 {
		t.Errorf("expected 2 valid quiz IDs, got %v", view.ValidQuizIDs)
	}

	for _, id := range []int64{empty, 9999} {
		view, err := s.GetQuizResults(id)
		if err != nil {
			t.Fatalf("GetQuizResults(%d): %v", id, err)
		}
		if view.HasResults {
			t.Errorf("quiz %d: expected no results", id)
		}
	}
}

func TestGetStudentReport(t *testing.T) {
	s := newTestStore(t)

	jane := insertTestStudent(t, s, "Jane", "Doe")
	math := insertTestQuiz(t, s, "Math", "2024-02-15")
	hist := insertTestQuiz(t, s, "History", "2024-03-01")
	addTestResult(t, s, jane, hist, 7)
	addTestResult(t, s, jane, math, 8.5)

	report, err := s.GetStudentReport(jane)
	if err != nil {
		t.Fatalf("GetStudentReport: %v", err)
	}
	if report.Student.FullName() != "Jane Doe" {
		t.Errorf("unexpected name %q", report.Student.FullName())
	}
	if len(report.Grades) != 2 || report.Grades[0].QuizID != math {
		t.Fatalf("expected grades ordered by quiz ID, got %+v", report.Grades)
	}
	if report.Grades[0].Subject != "Math" || report.Grades[0].Grade != 8.5 {
		t.Errorf("unexpected first grade %+v", report.Grades[0])
	}

	john := insertTestStudent(t, s, "John", "Smith")
	report, err = s.GetStudentReport(john)
	if err != nil {
		t.Fatalf("GetStudentReport: %v", err)
	}
	if report.HasResults {
		t.Error("expected no results for John")
	}

	if _, err := s.GetStudentReport(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExportGradebook(t *testing.T) {
	s := newTestStore(t)

	gb, err := s.ExportGradebook()
	if err != nil {
		t.Fatalf("ExportGradebook: %v", err)
	}
	if gb.Students == nil || gb.Quizzes == nil || gb.Results == nil {
		t.Error("expected empty slices, not nil")
	}

	jane := insertTestStudent(t, s, "Jane", "Doe")
	math := insertTestQuiz(t, s, "Math", "2024-02-15")
	addTestResult(t, s, jane, math, 8.5)

	gb, err = s.ExportGradebook()
	if err != nil {
		t.Fatalf("ExportGradebook: %v", err)
	}
	if len(gb.Students) != 1 || len(gb.Quizzes) != 1 || len(gb.Results) != 1 {
		t.Errorf("unexpected export sizes: %d/%d/%d", len(gb.Students), len(gb.Quizzes), len(gb.Results))
	}
}
