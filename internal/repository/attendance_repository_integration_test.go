//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	"github.com/noah-isme/facegaze-attendance-api/pkg/database"
)

// Run with: TEST_DATABASE_DSN="postgres://..." go test -tags integration ./internal/repository/...
func newIntegrationGateway(t *testing.T) *database.Gateway {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../migrations/001_init.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return database.NewGateway(db, database.GatewayOptions{QueryTimeout: 5 * time.Second})
}

func TestAttendanceRepositoryTodayExcludesEarlierDates(t *testing.T) {
	gw := newIntegrationGateway(t)
	ctx := context.Background()

	lectureID := "IT_" + uuid.NewString()[:8]
	_, err := gw.Exec(ctx, "seed.lecture", `INSERT INTO lectures (lecture_id, lecturer_name, lecturer_email) VALUES ($1, $2, $3)`,
		lectureID, "Dr Test", lectureID+"@uni.test")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = gw.Exec(ctx, "cleanup.attendance", `DELETE FROM attendance_records WHERE lecture_id = $1`, lectureID)
		_, _ = gw.Exec(ctx, "cleanup.students", `DELETE FROM students WHERE lecture_id = $1`, lectureID)
		_, _ = gw.Exec(ctx, "cleanup.lecture", `DELETE FROM lectures WHERE lecture_id = $1`, lectureID)
	})

	students := NewStudentRepository(gw)
	require.NoError(t, students.Create(ctx, &models.Student{
		StudentID:      "S1",
		LectureID:      lectureID,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		FaceDescriptor: models.FaceDescriptor{0.1, 0.2},
	}))

	_, err = gw.Exec(ctx, "seed.yesterday", `INSERT INTO attendance_records (student_id, lecture_id, lecture_date, check_in_time)
        VALUES ($1, $2, CURRENT_DATE - 1, NOW() - INTERVAL '1 day')`, "S1", lectureID)
	require.NoError(t, err)

	repo := NewAttendanceRepository(gw)
	today, err := repo.Insert(ctx, models.NewCheckIn{StudentID: "S1", LectureID: lectureID})
	require.NoError(t, err)

	feed, err := repo.ListToday(ctx, lectureID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, today.CheckInTime.Equal(feed[0].CheckInTime))

	day, dated, err := repo.ListTodayDated(ctx, lectureID)
	require.NoError(t, err)
	require.Len(t, dated, 1)
	assert.Equal(t, today.LectureDate.Format("2006-01-02"), day.Format("2006-01-02"))
}
