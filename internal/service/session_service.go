package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/facegaze-attendance-api/internal/dto"
	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	"github.com/noah-isme/facegaze-attendance-api/internal/repository"
	appErrors "github.com/noah-isme/facegaze-attendance-api/pkg/errors"
)

const sessionIssuer = "facegaze-attendance"

type lectureRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Lecture, error)
}

// SessionStore persists live sessions keyed by session id.
type SessionStore interface {
	Save(ctx context.Context, identity models.Identity) error
	Find(ctx context.Context, sessionID string) (*models.Identity, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionConfig configures token issuance and the lecturer credential.
// PasswordHash is a bcrypt hash; Password is hashed at construction when no hash is given.
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	PasswordHash string
	Password     string
}

type sessionClaims struct {
	LectureID string `json:"lecture_id"`
	jwt.RegisteredClaims
}

// SessionService logs lecturers in and resolves session tokens to identities.
type SessionService struct {
	lectures     lectureRepository
	store        SessionStore
	validator    *validator.Validate
	logger       *zap.Logger
	secret       []byte
	ttl          time.Duration
	passwordHash []byte
	now          func() time.Time
}

// NewSessionService constructs the session service.
func NewSessionService(lectures lectureRepository, store SessionStore, validate *validator.Validate, logger *zap.Logger, cfg SessionConfig) (*SessionService, error) {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 8 * time.Hour
	}

	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 && cfg.Password != "" {
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash lecturer password: %w", err)
		}
		hash = generated
	}
	if len(hash) == 0 {
		logger.Warn("no lecturer credential configured; every login will be rejected")
	}

	return &SessionService{
		lectures:     lectures,
		store:        store,
		validator:    validate,
		logger:       logger,
		secret:       []byte(cfg.Secret),
		ttl:          cfg.TTL,
		passwordHash: hash,
		now:          time.Now,
	}, nil
}

// Login checks the shared lecturer credential and opens a session for the lecture owned by email.
func (s *SessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Email and password are required.")
	}

	if len(s.passwordHash) == 0 || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid email or password.")
	}

	lecture, err := s.lectures.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Lecturer not found.")
		}
		return nil, mapStoreError(s.logger, err, "Server error during login.")
	}

	issuedAt := s.now().UTC()
	identity := models.Identity{
		SessionID:     uuid.NewString(),
		LectureID:     lecture.LectureID,
		LecturerName:  lecture.LecturerName,
		LecturerEmail: lecture.LecturerEmail,
		IssuedAt:      issuedAt,
		ExpiresAt:     issuedAt.Add(s.ttl),
	}

	token, err := s.sign(identity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue session")
	}
	if err := s.store.Save(ctx, identity); err != nil {
		s.logger.Error("failed to persist session", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, appErrors.ErrServiceUnavailable.Message)
	}

	s.logger.Info("lecturer logged in", zap.String("lecture_id", identity.LectureID))
	return &dto.LoginResponse{SessionID: token, Lecturer: identity}, nil
}

// Logout ends the session behind token. Unknown, malformed or expired tokens are accepted silently.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := s.store.Delete(ctx, claims.ID); err != nil {
		s.logger.Error("failed to delete session", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, appErrors.ErrServiceUnavailable.Message)
	}
	return nil
}

// ResolveCaller returns the identity behind a live session token.
func (s *SessionService) ResolveCaller(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "Unauthorized: Please log in.")
	}

	identity, err := s.store.Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized: Please log in.")
		}
		s.logger.Error("failed to load session", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, appErrors.ErrServiceUnavailable.Message)
	}
	if identity.LectureID != claims.LectureID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized: Please log in.")
	}
	return identity, nil
}

func (s *SessionService) sign(identity models.Identity) (string, error) {
	claims := &sessionClaims{
		LectureID: identity.LectureID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        identity.SessionID,
			Issuer:    sessionIssuer,
			Subject:   identity.LecturerEmail,
			IssuedAt:  jwt.NewNumericDate(identity.IssuedAt),
			NotBefore: jwt.NewNumericDate(identity.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(identity.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SessionService) parse(token string, opts ...jwt.ParserOption) (*sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("missing session token")
	}
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.ID == "" {
		return nil, errors.New("session token has no id")
	}
	return claims, nil
}
