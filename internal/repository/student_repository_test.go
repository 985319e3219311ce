package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	"github.com/noah-isme/facegaze-attendance-api/pkg/database"
)

func newGatewayMock(t *testing.T) (*database.Gateway, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	gw := database.NewGateway(sqlx.NewDb(db, "sqlmock"), database.GatewayOptions{QueryTimeout: time.Second})
	return gw, mock, func() { db.Close() }
}

var studentColumns = []string{"student_id", "lecture_id", "first_name", "last_name", "face_descriptor", "profile_image", "image_type", "created_at"}

func TestStudentRepositoryListByLecture(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows(studentColumns).
		AddRow("S1", "CS101_L1", "Ada", "Lovelace", "[0.1,-0.25,0.5]", "data:image/png;base64,AAA", "base64", time.Now()).
		AddRow("S2", "CS101_L1", "Alan", "Turing", nil, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM students\n        WHERE lecture_id = $1\n        ORDER BY created_at ASC, student_id ASC")).
		WithArgs("CS101_L1").
		WillReturnRows(rows)

	students, err := repo.ListByLecture(context.Background(), "CS101_L1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, models.FaceDescriptor{0.1, -0.25, 0.5}, students[0].FaceDescriptor)
	require.NotNil(t, students[0].ProfileImage)
	assert.Nil(t, students[1].FaceDescriptor)
	assert.Nil(t, students[1].ProfileImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListEmptyIsNotNil(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students").WithArgs("CS101_L1").WillReturnRows(sqlmock.NewRows(studentColumns))

	students, err := repo.ListByLecture(context.Background(), "CS101_L1")
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	createdAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO students (student_id, lecture_id, first_name, last_name, face_descriptor, profile_image, image_type)")).
		WithArgs("S1", "CS101_L1", "Ada", "Lovelace", "[0.1,0.2]", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	student := &models.Student{StudentID: "S1", LectureID: "CS101_L1", FirstName: "Ada", LastName: "Lovelace", FaceDescriptor: models.FaceDescriptor{0.1, 0.2}}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, createdAt, student.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_pkey"})

	err := repo.Create(context.Background(), &models.Student{StudentID: "S1", LectureID: "CS101_L1", FaceDescriptor: models.FaceDescriptor{1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteWithAttendance(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_records WHERE student_id = $1 AND lecture_id = $2")).
		WithArgs("S1", "CS101_L1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE student_id = $1 AND lecture_id = $2")).
		WithArgs("S1", "CS101_L1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := repo.DeleteWithAttendance(context.Background(), "CS101_L1", "S1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteMissingRollsBack(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_records")).
		WithArgs("ghost", "CS101_L1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students")).
		WithArgs("ghost", "CS101_L1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.DeleteWithAttendance(context.Background(), "CS101_L1", "ghost")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteFailureMidTransactionRollsBack(t *testing.T) {
	db, mock, cleanup := newGatewayMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_records")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.DeleteWithAttendance(context.Background(), "CS101_L1", "S1")
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}
