package postgres

import (
	"context"
	"time"

	"flightdeck/internal/domain/entity"
	"flightdeck/internal/domain/repository"
	"flightdeck/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sessionRepository implements the domain.SessionRepository interface using GORM.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Create persists a new session row.
func (repo *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	sessionM := fromSessionDomain(session)
	if err := repo.db.WithContext(ctx).Create(sessionM).Error; err != nil {
		return errors.Wrap(err, "failed to create session")
	}

	session.CreatedAt = sessionM.CreatedAt

	return nil
}

// FindByTokenHash retrieves a session by the stored hash of its token.
func (repo *sessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	var sessionM model.SessionModel
	if err := repo.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&sessionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find session")
	}

	return toSessionDomain(&sessionM), nil
}

// DeleteByTokenHash removes a session row. Deleting an already-absent row is
// not an error; logout is idempotent.
func (repo *sessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	result := repo.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&model.SessionModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete session")
	}

	return nil
}

// DeleteExpired removes all sessions past their absolute expiry.
func (repo *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := repo.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&model.SessionModel{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete expired sessions")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

func toSessionDomain(data *model.SessionModel) *entity.Session {
	if data == nil {
		return nil
	}

	return &entity.Session{
		ID:        data.ID,
		TokenHash: data.TokenHash,
		UserID:    data.UserID,
		UserName:  data.UserName,
		CreatedAt: data.CreatedAt,
		ExpiresAt: data.ExpiresAt,
	}
}

func fromSessionDomain(data *entity.Session) *model.SessionModel {
	if data == nil {
		return nil
	}

	return &model.SessionModel{
		ID:        data.ID,
		TokenHash: data.TokenHash,
		UserID:    data.UserID,
		UserName:  data.UserName,
		ExpiresAt: data.ExpiresAt,
	}
}
