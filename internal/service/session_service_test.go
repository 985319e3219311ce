package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/facegaze-attendance-api/internal/dto"
	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	"github.com/noah-isme/facegaze-attendance-api/internal/repository"
	appErrors "github.com/noah-isme/facegaze-attendance-api/pkg/errors"
)

type lectureRepoStub struct {
	lectures map[string]models.Lecture
}

// FindByEmail compares case-insensitively, like the LOWER() lookup in the repository.
func (s lectureRepoStub) FindByEmail(ctx context.Context, email string) (*models.Lecture, error) {
	for key, lecture := range s.lectures {
		if strings.EqualFold(key, email) {
			lecture := lecture
			return &lecture, nil
		}
	}
	return nil, sql.ErrNoRows
}

// exactLectureRepo matches emails byte for byte.
type exactLectureRepo map[string]models.Lecture

func (r exactLectureRepo) FindByEmail(ctx context.Context, email string) (*models.Lecture, error) {
	if lecture, ok := r[email]; ok {
		return &lecture, nil
	}
	return nil, sql.ErrNoRows
}

func newSessionServiceForTest(t *testing.T) (*SessionService, *repository.MemorySessionStore) {
	t.Helper()
	store := repository.NewMemorySessionStore()
	lectures := lectureRepoStub{lectures: map[string]models.Lecture{
		"lecturer@uni.test": {LectureID: "CS101_L1", LecturerName: "Dr Grace", LecturerEmail: "lecturer@uni.test"},
	}}
	svc, err := NewSessionService(lectures, store, nil, zap.NewNop(), SessionConfig{
		Secret:   "test-secret",
		TTL:      time.Hour,
		Password: "password",
	})
	require.NoError(t, err)
	return svc, store
}

func TestSessionServiceLoginResolveLogout(t *testing.T) {
	svc, _ := newSessionServiceForTest(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: " Lecturer@uni.test ", Password: "password"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "CS101_L1", resp.Lecturer.LectureID)

	identity, err := svc.ResolveCaller(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "CS101_L1", identity.LectureID)
	assert.Equal(t, "Dr Grace", identity.LecturerName)

	require.NoError(t, svc.Logout(ctx, resp.SessionID))
	_, err = svc.ResolveCaller(ctx, resp.SessionID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	assert.NoError(t, svc.Logout(ctx, resp.SessionID))
	assert.NoError(t, svc.Logout(ctx, "not-a-token"))
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestSessionServiceLoginFailures(t *testing.T) {
	svc, _ := newSessionServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "lecturer@uni.test", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@uni.test", Password: "password"})
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
	assert.Equal(t, "Lecturer not found.", appErrors.FromError(err).Message)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "not-an-email", Password: "password"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSessionServiceAcceptsPrecomputedHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	lectures := lectureRepoStub{lectures: map[string]models.Lecture{"a@uni.test": {LectureID: "L1", LecturerEmail: "a@uni.test"}}}
	svc, err := NewSessionService(lectures, repository.NewMemorySessionStore(), nil, zap.NewNop(), SessionConfig{
		Secret:       "k",
		PasswordHash: string(hash),
		Password:     "ignored",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "a@uni.test", Password: "s3cret"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "a@uni.test", Password: "ignored"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestSessionServiceRejectsForeignAndExpiredTokens(t *testing.T) {
	svc, _ := newSessionServiceForTest(t)
	ctx := context.Background()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &sessionClaims{
		LectureID:        "CS101_L1",
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", Issuer: sessionIssuer},
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.ResolveCaller(ctx, signed)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "lecturer@uni.test", Password: "password"})
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ResolveCaller(ctx, resp.SessionID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.ResolveCaller(ctx, "")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestNewSessionServiceRequiresSecret(t *testing.T) {
	_, err := NewSessionService(lectureRepoStub{}, repository.NewMemorySessionStore(), nil, nil, SessionConfig{})
	assert.Error(t, err)
}

func TestSessionServiceLoginKeepsEmailCase(t *testing.T) {
	lectures := exactLectureRepo{
		"Dr.Smith@uni.ac.za": {LectureID: "CS201_L1", LecturerName: "Dr Smith", LecturerEmail: "Dr.Smith@uni.ac.za"},
	}
	svc, err := NewSessionService(lectures, repository.NewMemorySessionStore(), nil, zap.NewNop(), SessionConfig{
		Secret:   "test-secret",
		Password: "password",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: " Dr.Smith@uni.ac.za ", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "CS201_L1", resp.Lecturer.LectureID)
	assert.Equal(t, "Dr.Smith@uni.ac.za", resp.Lecturer.LecturerEmail)
}

func TestSessionServiceLoginIgnoresEmailCase(t *testing.T) {
	svc, _ := newSessionServiceForTest(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "LECTURER@UNI.TEST", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "CS101_L1", resp.Lecturer.LectureID)
}
