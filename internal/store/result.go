package store

import (
	"log/slog"

	"github.com/pavelanni/gradebook/internal/model"
)

// AddResult records a grade for a student on a quiz. Duplicates are allowed.
func (s *Store) AddResult(r model.Result) error {
	_, err := s.db.Exec(
		`INSERT INTO Student_Results (student_id, quiz_id, result) VALUES (?, ?, ?)`,
		r.StudentID, r.QuizID, r.Grade,
	)
	if err != nil {
		slog.Error("failed to add result", "student_id", r.StudentID, "quiz_id", r.QuizID, "error", err)
		return err
	}
	slog.Info("added result", "student_id", r.StudentID, "quiz_id", r.QuizID)
	return nil
}

// DeleteResult removes at most one row equal to r on all three columns.
// It reports whether a row was removed.
func (s *Store) DeleteResult(r model.Result) (bool, error) {
	res, err := s.db.Exec(
		`DELETE FROM Student_Results WHERE rowid = (
			SELECT rowid FROM Student_Results
			WHERE student_id = ? AND quiz_id = ? AND result = ?
			LIMIT 1
		)`,
		r.StudentID, r.QuizID, r.Grade,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListResults returns every result row in insertion order.
func (s *Store) ListResults() ([]model.Result, error) {
	rows, err := s.db.Query(`SELECT student_id, quiz_id, result FROM Student_Results ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.Result
	for rows.Next() {
		var r model.Result
		if err := rows.Scan(&r.StudentID, &r.QuizID, &r.Grade); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ResultCount returns the number of result rows.
func (s *Store) ResultCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM Student_Results`).Scan(&count)
	return count, err
}

// GetQuizResults builds the anonymous leaderboard for a quiz: grades with quiz
// metadata, best first, identified by student ID only. A quiz with no results
// and a quiz that does not exist look the same.
func (s *Store) GetQuizResults(quizID int64) (*model.QuizResultsView, error) {
	rows, err := s.db.Query(
		`SELECT r.student_id, q.subject, q.date, q.num_of_questions, r.result
		 FROM Student_Results r
		 LEFT JOIN Quizzes q ON r.quiz_id = q.id
		 WHERE r.quiz_id = ?
		 ORDER BY r.result DESC`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	view := &model.QuizResultsView{QuizID: quizID}
	for rows.Next() {
		var (
			ar      model.AnonymousResult
			subject *string
			date    *string
			numQ    *int
		)
		if err := rows.Scan(&ar.StudentID, &subject, &date, &numQ, &ar.Grade); err != nil {
			return nil, err
		}
		ar.QuizID = quizID
		if subject != nil {
			ar.Subject = *subject
		}
		if date != nil {
			ar.Date = *date
		}
		if numQ != nil {
			ar.NumOfQuestions = *numQ
		}
		view.Results = append(view.Results, ar)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	view.HasResults = len(view.Results) > 0
	view.ValidQuizIDs, err = s.ListQuizIDs()
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetStudentReport returns a student's name and all their results ordered by
// quiz ID, or ErrNotFound if the student does not exist.
func (s *Store) GetStudentReport(studentID int64) (*model.StudentReport, error) {
	st, err := s.GetStudent(studentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT r.quiz_id, q.subject, q.date, r.result
		 FROM Student_Results r
		 LEFT JOIN Quizzes q ON r.quiz_id = q.id
		 WHERE r.student_id = ?
		 ORDER BY r.quiz_id ASC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := &model.StudentReport{Student: st}
	for rows.Next() {
		var (
			g       model.StudentGrade
			subject *string
			date    *string
		)
		if err := rows.Scan(&g.QuizID, &subject, &date, &g.Grade); err != nil {
			return nil, err
		}
		if subject != nil {
			g.Subject = *subject
		}
		if date != nil {
			g.Date = *date
		}
		report.Grades = append(report.Grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	report.HasResults = len(report.Grades) > 0
	return report, nil
}
