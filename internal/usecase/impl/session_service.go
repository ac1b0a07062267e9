package impl

import (
	"context"
	"log/slog"
	"time"

	"flightdeck/config"
	deliverycontext "flightdeck/internal/delivery/context"
	"flightdeck/internal/domain/entity"
	"flightdeck/internal/domain/repository"
	"flightdeck/internal/domain/service"
	"flightdeck/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface on top of the
// durable session repository and the opaque token source.
type sessionService struct {
	sessionRepo repository.SessionRepository
	tokenSource service.TokenSource
	ttl         time.Duration
	logger      *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	SessionRepo repository.SessionRepository
	TokenSource service.TokenSource
	Config      *config.Config
	Logger      *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		sessionRepo: params.SessionRepo,
		tokenSource: params.TokenSource,
		ttl:         params.Config.Session.TTL,
		logger:      params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create opens a session with a fixed absolute expiry. The raw token goes
// back to the caller for the cookie; only its keyed hash is stored.
func (srv *sessionService) Create(ctx context.Context, identity *entity.Identity) (string, error) {
	token, err := srv.tokenSource.Generate()
	if err != nil {
		return "", errors.Wrap(err, "failed to generate session token")
	}

	session := &entity.Session{
		TokenHash: srv.tokenSource.Hash(token),
		UserID:    identity.ID,
		UserName:  identity.Name,
		ExpiresAt: time.Now().Add(srv.ttl),
	}
	if err := srv.sessionRepo.Create(ctx, session); err != nil {
		return "", errors.Wrap(err, "failed to persist session")
	}

	return token, nil
}

// Resolve maps a raw cookie token to an identity. An unknown or expired
// token yields (nil, nil); expired rows are deleted on sight so the table
// does not rely solely on the periodic purge.
func (srv *sessionService) Resolve(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, nil
	}

	tokenHash := srv.tokenSource.Hash(token)
	session, err := srv.sessionRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to resolve session")
	}

	if session.IsExpired() {
		if err := srv.sessionRepo.DeleteByTokenHash(ctx, tokenHash); err != nil {
			srv.log(ctx).Warn("Failed to delete expired session", slog.Any("error", err))
		}

		return nil, nil
	}

	return session.Identity(), nil
}

// Destroy ends the session for the given raw token. Idempotent.
func (srv *sessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	return srv.sessionRepo.DeleteByTokenHash(ctx, srv.tokenSource.Hash(token))
}

// PurgeExpired removes sessions past their absolute expiry.
func (srv *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := srv.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge expired sessions")
	}

	if removed > 0 {
		srv.log(ctx).Info("Purged expired sessions", slog.Int64("removed", removed))
	}

	return removed, nil
}
