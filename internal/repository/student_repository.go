package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	"github.com/noah-isme/facegaze-attendance-api/pkg/database"
)

// StudentRepository manages roster rows and their dependent attendance rows.
type StudentRepository struct {
	db *database.Gateway
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *database.Gateway) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListByLecture returns the full roster of a lecture in enrollment order.
func (r *StudentRepository) ListByLecture(ctx context.Context, lectureID string) ([]models.Student, error) {
	const query = `SELECT student_id, lecture_id, first_name, last_name, face_descriptor, profile_image, image_type, created_at
        FROM students
        WHERE lecture_id = $1
        ORDER BY created_at ASC, student_id ASC`
	students := make([]models.Student, 0)
	if err := r.db.Select(ctx, "students.list", &students, query, lectureID); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Create enrolls a student. A duplicate (student_id, lecture_id) fails with database.ErrConflict.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (student_id, lecture_id, first_name, last_name, face_descriptor, profile_image, image_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`
	if err := r.db.Get(ctx, "students.create", &student.CreatedAt, query,
		student.StudentID,
		student.LectureID,
		student.FirstName,
		student.LastName,
		student.FaceDescriptor,
		student.ProfileImage,
		student.ImageType,
	); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// DeleteWithAttendance removes a student's attendance history and then the student in one
// transaction. When the student is not enrolled in the lecture the transaction is rolled back
// and sql.ErrNoRows is returned, so no attendance deletion survives.
func (r *StudentRepository) DeleteWithAttendance(ctx context.Context, lectureID, studentID string) (int64, error) {
	var removedCheckIns int64
	err := r.db.WithTx(ctx, "students.delete_cascade", func(ctx context.Context, tx *database.Tx) error {
		res, err := tx.Exec(ctx, `DELETE FROM attendance_records WHERE student_id = $1 AND lecture_id = $2`, studentID, lectureID)
		if err != nil {
			return fmt.Errorf("delete attendance records: %w", err)
		}
		if removedCheckIns, err = res.RowsAffected(); err != nil {
			return database.Classify("students.delete_cascade", err)
		}

		res, err = tx.Exec(ctx, `DELETE FROM students WHERE student_id = $1 AND lecture_id = $2`, studentID, lectureID)
		if err != nil {
			return fmt.Errorf("delete student: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return database.Classify("students.delete_cascade", err)
		}
		if affected == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removedCheckIns, nil
}
