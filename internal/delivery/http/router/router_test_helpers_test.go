package router

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"flightdeck/config"
	flightmw "flightdeck/internal/delivery/http/middleware"
	"flightdeck/internal/delivery/http/router/handler"
	"flightdeck/internal/delivery/http/validator"
	"flightdeck/internal/delivery/http/view"
	"flightdeck/internal/domain/entity"
	domainerrors "flightdeck/internal/domain/errors"
	"flightdeck/internal/infra/metrics"
	"flightdeck/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
)

// --- In-memory usecase fakes backing the wired test server ---

type memAccount struct {
	id       uuid.UUID
	password string
	name     string
}

type memUsers struct {
	mu       sync.Mutex
	accounts map[string]*memAccount
}

func newMemUsers() *memUsers {
	return &memUsers{accounts: make(map[string]*memAccount)}
}

func (u *memUsers) Register(_ context.Context, input usecase.RegisterInput) (*entity.Identity, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if strings.TrimSpace(input.Username) == "" || input.Password == "" || strings.TrimSpace(input.Name) == "" {
		return nil, domainerrors.ErrValidationFailed
	}
	if _, exists := u.accounts[input.Username]; exists {
		return nil, domainerrors.ErrUsernameTaken
	}
	account := &memAccount{id: uuid.New(), password: input.Password, name: input.Name}
	u.accounts[input.Username] = account

	return &entity.Identity{ID: account.id, Name: account.name}, nil
}

func (u *memUsers) Login(_ context.Context, input usecase.LoginInput) (*entity.Identity, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	account, ok := u.accounts[input.Username]
	if !ok || account.password != input.Password {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return &entity.Identity{ID: account.id, Name: account.name}, nil
}

func (u *memUsers) GoogleAuthURL() string { return "" }

func (u *memUsers) GoogleCallback(context.Context, string, string) (*entity.Identity, error) {
	return nil, domainerrors.ErrOAuthFailed
}

type memSessions struct {
	mu     sync.Mutex
	next   int
	tokens map[string]*entity.Identity
}

func newMemSessions() *memSessions {
	return &memSessions{tokens: make(map[string]*entity.Identity)}
}

func (s *memSessions) Create(_ context.Context, identity *entity.Identity) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	token := fmt.Sprintf("session-token-%d", s.next)
	copied := *identity
	s.tokens[token] = &copied

	return token, nil
}

func (s *memSessions) Resolve(_ context.Context, token string) (*entity.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.tokens[token]
	if !ok {
		return nil, nil
	}
	copied := *identity

	return &copied, nil
}

func (s *memSessions) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)

	return nil
}

func (s *memSessions) PurgeExpired(context.Context) (int64, error) { return 0, nil }

type memFlights struct {
	mu      sync.Mutex
	seq     int
	records map[uuid.UUID]*entity.Flight
}

func newMemFlights() *memFlights {
	return &memFlights{records: make(map[uuid.UUID]*entity.Flight)}
}

func (f *memFlights) List(_ context.Context, ownerID uuid.UUID) ([]*entity.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var flights []*entity.Flight
	for _, flight := range f.records {
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

func (f *memFlights) Create(_ context.Context, ownerID uuid.UUID, input usecase.CreateFlightInput) (*entity.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.TrimSpace(input.FlightNumber) == "" || strings.TrimSpace(input.Destination) == "" ||
		input.Hours == nil || input.Minutes == nil {
		return nil, domainerrors.ErrValidationFailed
	}
	for _, existing := range f.records {
		if existing.OwnerID == ownerID && existing.FlightNumber == input.FlightNumber {
			return nil, domainerrors.ErrFlightNumberTaken
		}
	}

	f.seq++
	flight := &entity.Flight{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		FlightNumber:     strings.TrimSpace(input.FlightNumber),
		Destination:      strings.TrimSpace(input.Destination),
		Hours:            *input.Hours,
		Minutes:          *input.Minutes,
		Gate:             input.Gate,
		Status:           input.Status,
		Airline:          input.Airline,
		DepartureAirport: input.DepartureAirport,
		ArrivalAirport:   input.ArrivalAirport,
		Photo:            input.Photo,
		CreatedAt:        time.Unix(int64(f.seq), 0),
	}
	flight.ApplyDefaults()
	f.records[flight.ID] = flight
	copied := *flight

	return &copied, nil
}

func (f *memFlights) Get(_ context.Context, ownerID, flightID uuid.UUID) (*entity.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flight, ok := f.records[flightID]
	if !ok || flight.OwnerID != ownerID {
		return nil, domainerrors.ErrFlightNotFound
	}
	copied := *flight

	return &copied, nil
}

func (f *memFlights) GetByNumber(_ context.Context, ownerID uuid.UUID, flightNumber string) (*entity.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if flight := f.byNumberLocked(ownerID, flightNumber); flight != nil {
		copied := *flight

		return &copied, nil
	}

	return nil, domainerrors.ErrFlightNotFound
}

func (f *memFlights) Update(_ context.Context, ownerID, flightID uuid.UUID, input usecase.UpdateFlightInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	flight, ok := f.records[flightID]
	if !ok || flight.OwnerID != ownerID {
		return domainerrors.ErrFlightNotFound
	}
	applyUpdate(flight, input)

	return nil
}

func (f *memFlights) UpdateByNumber(_ context.Context, ownerID uuid.UUID, flightNumber string, input usecase.UpdateFlightInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	flight := f.byNumberLocked(ownerID, flightNumber)
	if flight == nil {
		return domainerrors.ErrFlightNotFound
	}
	applyUpdate(flight, input)

	return nil
}

func (f *memFlights) DeleteByNumber(_ context.Context, ownerID uuid.UUID, flightNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	flight := f.byNumberLocked(ownerID, flightNumber)
	if flight == nil {
		return domainerrors.ErrFlightNotFound
	}
	delete(f.records, flight.ID)

	return nil
}

func (f *memFlights) byNumberLocked(ownerID uuid.UUID, flightNumber string) *entity.Flight {
	for _, flight := range f.records {
		if flight.OwnerID == ownerID && flight.FlightNumber == flightNumber {
			return flight
		}
	}

	return nil
}

func applyUpdate(flight *entity.Flight, input usecase.UpdateFlightInput) {
	if input.FlightNumber != nil {
		flight.FlightNumber = *input.FlightNumber
	}
	if input.Destination != nil {
		flight.Destination = *input.Destination
	}
	if input.Hours != nil {
		flight.Hours = *input.Hours
	}
	if input.Minutes != nil {
		flight.Minutes = *input.Minutes
	}
	if input.Gate != nil {
		flight.Gate = *input.Gate
	}
	if input.Status != nil {
		flight.Status = *input.Status
	}
	if input.Airline != nil {
		flight.Airline = *input.Airline
	}
	if input.DepartureAirport != nil {
		flight.DepartureAirport = *input.DepartureAirport
	}
	if input.ArrivalAirport != nil {
		flight.ArrivalAirport = *input.ArrivalAirport
	}
	if input.Photo != nil {
		flight.Photo = *input.Photo
	}
}

// --- Wired test server ---

type testApp struct {
	echo     *echo.Echo
	users    *memUsers
	sessions *memSessions
	flights  *memFlights
	cfg      *config.Config
}

// newTestApp wires a full echo server over the in-memory fakes, mirroring
// the production middleware chain and route table.
func newTestApp() (*testApp, error) {
	cfg := &config.Config{}
	cfg.Session.CookieName = "flightdeck_session"
	cfg.Session.TTL = 24 * time.Hour

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := newMemUsers()
	sessions := newMemSessions()
	flights := newMemFlights()

	e := echo.New()
	e.HideBanner = true

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = validator.New()
	e.HTTPErrorHandler = flightmw.NewErrorMiddleware(logger).HandleHTTPError
	e.Pre(echomw.MethodOverrideWithConfig(echomw.MethodOverrideConfig{
		Getter: echomw.MethodFromForm("_method"),
	}))
	e.Use(echomw.Recover())

	authHandler := handler.NewAuthHandler(handler.AuthHandlerParams{
		Users:    users,
		Sessions: sessions,
		Config:   cfg,
		Logger:   logger,
	})
	flightHandler := handler.NewFlightHandler(handler.FlightHandlerParams{
		Flights: flights,
		Logger:  logger,
	})
	sessionMiddleware := flightmw.NewSessionMiddleware(sessions, cfg, logger)

	NewRouter(RouterParams{
		AuthHandler:       authHandler,
		FlightHandler:     flightHandler,
		SessionMiddleware: sessionMiddleware,
		Metrics:           metrics.NewCollector(),
	}).RegisterRoutes(e)

	return &testApp{echo: e, users: users, sessions: sessions, flights: flights, cfg: cfg}, nil
}

// sessionCookieFrom extracts the auth cookie set by a login or registration
// response.
func sessionCookieFrom(resp *http.Response, name string) (*http.Cookie, error) {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name && cookie.Value != "" {
			return cookie, nil
		}
	}

	return nil, errors.Errorf("no %s cookie in response", name)
}
