package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	"github.com/noah-isme/facegaze-attendance-api/pkg/database"
)

// AttendanceRepository persists check-in events.
type AttendanceRepository struct {
	db *database.Gateway
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *database.Gateway) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Insert stores one check-in. lecture_date and check_in_time come from column defaults so the
// datastore clock orders events, not the client's.
func (r *AttendanceRepository) Insert(ctx context.Context, checkIn models.NewCheckIn) (*models.AttendanceRecord, error) {
	const query = `INSERT INTO attendance_records (student_id, lecture_id, is_manual, check_in_image, image_type, latitude, longitude)
        VALUES ($1, $2, FALSE, $3, $4, $5, $6)
        RETURNING id, student_id, lecture_id, lecture_date, check_in_time, is_manual, check_in_image, image_type, latitude, longitude`
	var imageType *string
	if checkIn.CheckInImage != nil {
		tag := models.ImageTypeBase64
		imageType = &tag
	}
	var stored models.AttendanceRecord
	if err := r.db.Get(ctx, "attendance.insert", &stored, query,
		checkIn.StudentID,
		checkIn.LectureID,
		checkIn.CheckInImage,
		imageType,
		checkIn.Latitude,
		checkIn.Longitude,
	); err != nil {
		return nil, fmt.Errorf("insert attendance record: %w", err)
	}
	return &stored, nil
}

const listTodayQuery = `SELECT ar.student_id, s.first_name, s.last_name, ar.check_in_time, ar.latitude, ar.longitude, ar.check_in_image, ar.image_type
        FROM attendance_records ar
        JOIN students s ON s.student_id = ar.student_id AND s.lecture_id = ar.lecture_id
        WHERE ar.lecture_id = $1 AND ar.lecture_date = CURRENT_DATE
        ORDER BY ar.check_in_time DESC, ar.id DESC`

// ListToday returns the lecture's check-ins dated today by the datastore clock, most recent first.
func (r *AttendanceRepository) ListToday(ctx context.Context, lectureID string) ([]models.CheckIn, error) {
	rows := make([]models.CheckIn, 0)
	if err := r.db.Select(ctx, "attendance.list_today", &rows, listTodayQuery, lectureID); err != nil {
		return nil, fmt.Errorf("list today's attendance: %w", err)
	}
	return rows, nil
}

// ListTodayDated returns today's feed together with the datastore date it was taken for. Both reads
// share one transaction, so CURRENT_DATE is the same value in each.
func (r *AttendanceRepository) ListTodayDated(ctx context.Context, lectureID string) (time.Time, []models.CheckIn, error) {
	var day time.Time
	rows := make([]models.CheckIn, 0)
	err := r.db.WithTx(ctx, "attendance.list_today_dated", func(ctx context.Context, tx *database.Tx) error {
		if err := tx.Get(ctx, &day, `SELECT CURRENT_DATE`); err != nil {
			return fmt.Errorf("read datastore date: %w", err)
		}
		if err := tx.Select(ctx, &rows, listTodayQuery, lectureID); err != nil {
			return fmt.Errorf("list today's attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return time.Time{}, nil, err
	}
	return day, rows, nil
}
