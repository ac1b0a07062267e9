package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"flightdeck/internal/domain/entity"
	domainerrors "flightdeck/internal/domain/errors"
	"flightdeck/internal/domain/repository"
	"flightdeck/internal/domain/service"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- In-memory repository fakes ---

type fakeStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	auths     map[string]*entity.Authentication // keyed by provider + "\x00" + providerUserID
	sessions  map[string]*entity.Session        // keyed by token hash
	flights   map[uuid.UUID]*entity.Flight
	flightSeq int
	// Shared across services built on the same store so tokens never collide.
	tokens fakeTokenSource
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		auths:    make(map[string]*entity.Authentication),
		sessions: make(map[string]*entity.Session),
		flights:  make(map[uuid.UUID]*entity.Flight),
	}
}

func authKey(provider entity.ProviderType, providerUserID string) string {
	return provider.String() + "\x00" + providerUserID
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

type fakeAuthRepo struct{ store *fakeStore }

func (r *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := authKey(auth.Provider, auth.ProviderUserID)
	if _, exists := r.store.auths[key]; exists {
		// Same mapping the real repository applies to a unique violation.
		return domainerrors.ErrUsernameTaken.WrapMessage("credential already exists")
	}
	if auth.ID == uuid.Nil {
		auth.ID = uuid.New()
	}
	copied := *auth
	r.store.auths[key] = &copied

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(_ context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	auth, ok := r.store.auths[authKey(provider, providerUserID)]
	if !ok {
		return nil, repository.ErrAuthNotFound
	}
	copied := *auth

	return &copied, nil
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	copied := *session
	r.store.sessions[session.TokenHash] = &copied

	return nil
}

func (r *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session, ok := r.store.sessions[tokenHash]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *session

	return &copied, nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, tokenHash)

	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var removed int64
	for hash, session := range r.store.sessions {
		if session.IsExpired() {
			delete(r.store.sessions, hash)
			removed++
		}
	}

	return removed, nil
}

type fakeFlightRepo struct{ store *fakeStore }

func (r *fakeFlightRepo) Create(_ context.Context, flight *entity.Flight) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.flights {
		if existing.OwnerID == flight.OwnerID && existing.FlightNumber == flight.FlightNumber {
			return repository.ErrFlightNumberTaken
		}
	}
	if flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}
	// Strictly increasing timestamps so list ordering is deterministic.
	r.store.flightSeq++
	flight.CreatedAt = time.Unix(int64(r.store.flightSeq), 0)
	copied := *flight
	r.store.flights[flight.ID] = &copied

	return nil
}

func (r *fakeFlightRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Flight, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var flights []*entity.Flight
	for _, flight := range r.store.flights {
		if flight.OwnerID == ownerID {
			copied := *flight
			flights = append(flights, &copied)
		}
	}
	sort.Slice(flights, func(i, j int) bool {
		return flights[i].CreatedAt.After(flights[j].CreatedAt)
	})

	return flights, nil
}

func (r *fakeFlightRepo) FindOwned(_ context.Context, ownerID, flightID uuid.UUID) (*entity.Flight, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	flight, ok := r.store.flights[flightID]
	if !ok || flight.OwnerID != ownerID {
		return nil, repository.ErrFlightNotFound
	}
	copied := *flight

	return &copied, nil
}

func (r *fakeFlightRepo) FindOwnedByNumber(_ context.Context, ownerID uuid.UUID, flightNumber string) (*entity.Flight, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if flight := r.findByNumberLocked(ownerID, flightNumber); flight != nil {
		copied := *flight

		return &copied, nil
	}

	return nil, repository.ErrFlightNotFound
}

func (r *fakeFlightRepo) UpdateOwned(_ context.Context, ownerID, flightID uuid.UUID, fields map[string]any) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	flight, ok := r.store.flights[flightID]
	if !ok || flight.OwnerID != ownerID {
		return repository.ErrFlightNotFound
	}
	applyFields(flight, fields)

	return nil
}

func (r *fakeFlightRepo) UpdateOwnedByNumber(_ context.Context, ownerID uuid.UUID, flightNumber string, fields map[string]any) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	flight := r.findByNumberLocked(ownerID, flightNumber)
	if flight == nil {
		return repository.ErrFlightNotFound
	}
	applyFields(flight, fields)

	return nil
}

func (r *fakeFlightRepo) DeleteOwnedByNumber(_ context.Context, ownerID uuid.UUID, flightNumber string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	flight := r.findByNumberLocked(ownerID, flightNumber)
	if flight == nil {
		return repository.ErrFlightNotFound
	}
	delete(r.store.flights, flight.ID)

	return nil
}

func (r *fakeFlightRepo) findByNumberLocked(ownerID uuid.UUID, flightNumber string) *entity.Flight {
	for _, flight := range r.store.flights {
		if flight.OwnerID == ownerID && flight.FlightNumber == flightNumber {
			return flight
		}
	}

	return nil
}

func applyFields(flight *entity.Flight, fields map[string]any) {
	for column, value := range fields {
		switch column {
		case "flight_number":
			flight.FlightNumber = value.(string)
		case "destination":
			flight.Destination = value.(string)
		case "hours":
			flight.Hours = value.(int)
		case "minutes":
			flight.Minutes = value.(int)
		case "gate":
			flight.Gate = value.(string)
		case "status":
			flight.Status = value.(string)
		case "airline":
			flight.Airline = value.(string)
		case "departure_airport":
			flight.DepartureAirport = value.(string)
		case "arrival_airport":
			flight.ArrivalAirport = value.(string)
		case "photo":
			flight.Photo = value.(string)
		}
	}
}

// --- Transaction fake ---

type fakeTxManager struct{ store *fakeStore }

type fakeRepoFactory struct{ store *fakeStore }

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{store: f.store} }
func (f *fakeRepoFactory) AuthRepo() repository.AuthRepository { return &fakeAuthRepo{store: f.store} }

func (tm *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{store: tm.store})
}

// --- Service fakes ---

// fakeHasher keeps tests fast; the real bcrypt implementation has its own tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return hash == "hashed:"+password }

type fakeTokenSource struct {
	mu     sync.Mutex
	issued int
}

func (ts *fakeTokenSource) Generate() (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.issued++

	return fmt.Sprintf("token-%d", ts.issued), nil
}

func (ts *fakeTokenSource) Hash(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// fakeOAuth plays the provider side of the federated flow.
type fakeOAuth struct {
	validState  string
	profile     *service.OAuthUser
	exchangeErr error
}

func (o *fakeOAuth) BuildAuthorizationURL() string { return "https://provider.example/auth?state=" + o.validState }

func (o *fakeOAuth) ValidateState(state string) bool { return state != "" && state == o.validState }

func (o *fakeOAuth) ExchangeCode(_ context.Context, _ string) (*service.OAuthUser, error) {
	if o.exchangeErr != nil {
		return nil, o.exchangeErr
	}

	return o.profile, nil
}

func (o *fakeOAuth) Provider() entity.ProviderType { return entity.ProviderTypeGoogle }
