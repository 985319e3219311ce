package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	"github.com/noah-isme/facegaze-attendance-api/pkg/database"
)

// LectureRepository reads the pre-seeded lectures table.
type LectureRepository struct {
	db *database.Gateway
}

// NewLectureRepository constructs the repository.
func NewLectureRepository(db *database.Gateway) *LectureRepository {
	return &LectureRepository{db: db}
}

// FindByEmail returns the lecture owned by the lecturer. Emails match case-insensitively.
// Missing rows yield sql.ErrNoRows.
func (r *LectureRepository) FindByEmail(ctx context.Context, email string) (*models.Lecture, error) {
	const query = `SELECT lecture_id, lecturer_name, lecturer_email FROM lectures WHERE LOWER(lecturer_email) = LOWER($1) LIMIT 1`
	var lecture models.Lecture
	if err := r.db.Get(ctx, "lectures.find_by_email", &lecture, query, email); err != nil {
		return nil, fmt.Errorf("find lecture by email: %w", err)
	}
	return &lecture, nil
}
