package store

import (
	"database/sql"
	"log/slog"

	"github.com/pavelanni/gradebook/internal/model"
)

// CreateStudent inserts a student and returns the assigned ID.
func (s *Store) CreateStudent(firstName, lastName string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO Students (first_name, last_name) VALUES (?, ?)`,
		firstName, lastName,
	)
	if err != nil {
		slog.Error("failed to create student", "error", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	slog.Info("created student", "id", id)
	return id, nil
}

// ListStudents returns all students ordered by ID.
func (s *Store) ListStudents() ([]model.Student, error) {
	rows, err := s.db.Query(`SELECT id, first_name, last_name FROM Students ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var students []model.Student
	for rows.Next() {
		var st model.Student
		if err := rows.Scan(&st.ID, &st.FirstName, &st.LastName); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// GetStudent returns a student by ID, or ErrNotFound.
func (s *Store) GetStudent(id int64) (model.Student, error) {
	var st model.Student
	err := s.db.QueryRow(
		`SELECT id, first_name, last_name FROM Students WHERE id = ?`, id,
	).Scan(&st.ID, &st.FirstName, &st.LastName)
	if err == sql.ErrNoRows {
		return st, ErrNotFound
	}
	return st, err
}

// DeleteStudent removes a student and every result that references it.
// Unknown IDs are a no-op.
func (s *Store) DeleteStudent(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM Students WHERE id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM Student_Results WHERE student_id = ?`, id)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	slog.Info("deleted student", "id", id, "results_removed", n)
	return nil
}

// StudentCount returns the number of students.
func (s *Store) StudentCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM Students`).Scan(&count)
	return count, err
}
