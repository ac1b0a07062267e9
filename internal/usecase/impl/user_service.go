// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	deliverycontext "flightdeck/internal/delivery/context"
	"flightdeck/internal/domain/entity"
	domainerrors "flightdeck/internal/domain/errors"
	"flightdeck/internal/domain/repository"
	"flightdeck/internal/domain/service"
	"flightdeck/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	authRepo     repository.AuthRepository
	hasher       service.PasswordHasher
	googleOAuth  service.OAuthService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	UserRepo    repository.UserRepository
	AuthRepo    repository.AuthRepository
	Hasher      service.PasswordHasher
	GoogleOAuth service.OAuthService `optional:"true"`
	Logger      *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:   params.TxManager,
		userRepo:    params.UserRepo,
		authRepo:    params.AuthRepo,
		hasher:      params.Hasher,
		googleOAuth: params.GoogleOAuth,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new user together with a local credential in one
// transaction, so a username conflict never leaves an orphaned user row.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.Identity, error) {
	username := strings.TrimSpace(input.Username)
	name := strings.TrimSpace(input.Name)
	if username == "" || input.Password == "" || name == "" {
		return nil, domainerrors.ErrValidationFailed
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password")
	}

	var registered *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		_, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeLocal, username)
		if err == nil {
			return domainerrors.ErrUsernameTaken
		}
		if !errors.Is(err, repository.ErrAuthNotFound) {
			return errors.Wrap(err, "failed to check username availability")
		}

		newUser := &entity.User{Name: name}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		auth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeLocal,
			ProviderUserID: username,
			PasswordHash:   hashedPassword,
		}
		if err := authRepo.CreateAuthentication(ctx, auth); err != nil {
			// The unique index is the arbiter under concurrent registration.
			if errors.Is(err, domainerrors.ErrUsernameTaken) {
				return domainerrors.ErrUsernameTaken
			}

			return errors.Wrap(err, "failed to create credential")
		}

		registered = newUser

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User registered", slog.Any("userID", registered.ID), slog.String("username", username))

	return &entity.Identity{ID: registered.ID, Name: registered.Name}, nil
}

// Login verifies a local credential. Unknown username and wrong password both
// come back as ErrInvalidCredentials so the response never reveals which.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*entity.Identity, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, domainerrors.ErrInvalidCredentials
	}

	auth, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeLocal, username)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to look up credential")
	}

	if !srv.hasher.Check(input.Password, auth.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err := srv.userRepo.FindByID(ctx, auth.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for credential")
	}

	srv.log(ctx).Info("User logged in", slog.Any("userID", user.ID))

	return &entity.Identity{ID: user.ID, Name: user.Name}, nil
}

// GoogleAuthURL returns the provider consent URL, or an empty string when
// federated sign-in is not configured.
func (srv *userService) GoogleAuthURL() string {
	if srv.googleOAuth == nil {
		return ""
	}

	return srv.googleOAuth.BuildAuthorizationURL()
}

// GoogleCallback completes the federated round trip and reconciles the
// external profile to an internal user, provisioning one on first login.
func (srv *userService) GoogleCallback(ctx context.Context, state, code string) (*entity.Identity, error) {
	if srv.googleOAuth == nil {
		return nil, domainerrors.ErrOAuthFailed
	}
	if !srv.googleOAuth.ValidateState(state) {
		srv.log(ctx).Warn("Rejected federated callback with bad state")

		return nil, domainerrors.ErrOAuthFailed.WrapMessage("state mismatch")
	}

	profile, err := srv.googleOAuth.ExchangeCode(ctx, code)
	if err != nil {
		srv.log(ctx).Warn("Federated code exchange failed", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthFailed.WrapMessage("code exchange failed")
	}

	provider := srv.googleOAuth.Provider()

	auth, err := srv.authRepo.FindAuthentication(ctx, provider, profile.ID)
	if err == nil {
		user, err := srv.userRepo.FindByID(ctx, auth.UserID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load user for federated credential")
		}

		return &entity.Identity{ID: user.ID, Name: user.Name}, nil
	}
	if !errors.Is(err, repository.ErrAuthNotFound) {
		return nil, errors.Wrap(err, "failed to look up federated credential")
	}

	identity, err := srv.provisionFederatedUser(ctx, provider, profile)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Provisioned user from federated login", slog.Any("userID", identity.ID))

	return identity, nil
}

// provisionFederatedUser creates the user and federated credential rows for a
// first-time external login.
func (srv *userService) provisionFederatedUser(ctx context.Context, provider entity.ProviderType, profile *service.OAuthUser) (*entity.Identity, error) {
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = "Traveler"
	}
	email := profile.Email
	if email == "" {
		// Provider withheld the email; keep a recognizable placeholder.
		email = fmt.Sprintf("%s@google.local", profile.ID)
	}

	var created *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		newUser := &entity.User{Name: name, Email: email}
		if err := repoFactory.UserRepo().Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create federated user")
		}

		auth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       provider,
			ProviderUserID: profile.ID,
		}
		if err := repoFactory.AuthRepo().CreateAuthentication(ctx, auth); err != nil {
			return errors.Wrap(err, "failed to create federated credential")
		}

		created = newUser

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entity.Identity{ID: created.ID, Name: created.Name}, nil
}
