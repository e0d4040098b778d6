package store

import (
	"fmt"
	"time"

	"github.com/pavelanni/gradebook/internal/model"
)

// ExportGradebook collects every student, quiz, and result into one document.
func (s *Store) ExportGradebook() (*model.Gradebook, error) {
	students, err := s.ListStudents()
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	quizzes, err := s.ListQuizzes()
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	results, err := s.ListResults()
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	// Keep empty tables as [] rather than null in the JSON output.
	if students == nil {
		students = []model.Student{}
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}
	if results == nil {
		results = []model.Result{}
	}

	return &model.Gradebook{
		ExportedAt: time.Now().UTC(),
		Students:   students,
		Quizzes:    quizzes,
		Results:    results,
	}, nil
}
