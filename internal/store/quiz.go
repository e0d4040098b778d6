package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pavelanni/gradebook/internal/model"
)

// CreateQuiz inserts a quiz and returns the assigned ID.
func (s *Store) CreateQuiz(q model.Quiz) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO Quizzes (subject, num_of_questions, date) VALUES (?, ?, ?)`,
		q.Subject, q.NumOfQuestions, q.DateString(),
	)
	if err != nil {
		slog.Error("failed to create quiz", "subject", q.Subject, "error", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	slog.Info("created quiz", "id", id, "subject", q.Subject)
	return id, nil
}

// ListQuizzes returns all quizzes ordered by ID.
func (s *Store) ListQuizzes() ([]model.Quiz, error) {
	rows, err := s.db.Query(`SELECT id, subject, num_of_questions, date FROM Quizzes ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var quizzes []model.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// GetQuiz returns a quiz by ID, or ErrNotFound.
func (s *Store) GetQuiz(id int64) (model.Quiz, error) {
	q, err := scanQuiz(s.db.QueryRow(
		`SELECT id, subject, num_of_questions, date FROM Quizzes WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return q, ErrNotFound
	}
	return q, err
}

// ListQuizIDs returns every quiz ID in ascending order.
func (s *Store) ListQuizIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT id FROM Quizzes ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteQuiz removes a quiz and every result that references it.
// Unknown IDs are a no-op.
func (s *Store) DeleteQuiz(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM Quizzes WHERE id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM Student_Results WHERE quiz_id = ?`, id)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	slog.Info("deleted quiz", "id", id, "results_removed", n)
	return nil
}

// QuizCount returns the number of quizzes.
func (s *Store) QuizCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM Quizzes`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (model.Quiz, error) {
	var q model.Quiz
	var date string
	if err := row.Scan(&q.ID, &q.Subject, &q.NumOfQuestions, &date); err != nil {
		return q, err
	}
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return q, fmt.Errorf("quiz %d: parse date %q: %w", q.ID, date, err)
	}
	q.Date = d
	return q, nil
}
