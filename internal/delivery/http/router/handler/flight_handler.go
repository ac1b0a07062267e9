package handler

import (
	"encoding/base64"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"flightdeck/internal/delivery/http/middleware"
	"flightdeck/internal/delivery/http/response"
	"flightdeck/internal/domain/entity"
	domainerrors "flightdeck/internal/domain/errors"
	"flightdeck/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxPhotoBytes caps the accepted photo upload before base64 expansion.
const maxPhotoBytes = 5 << 20

// FlightHandler serves both the HTML pages and the JSON mirror of the
// flight CRUD surface. The owner is always the authenticated identity.
type FlightHandler struct {
	flights usecase.FlightUsecase
	logger  *slog.Logger
}

// FlightHandlerParams holds dependencies for FlightHandler, injected by Fx.
type FlightHandlerParams struct {
	fx.In

	Flights usecase.FlightUsecase
	Logger  *slog.Logger
}

// NewFlightHandler is the constructor for FlightHandler.
func NewFlightHandler(params FlightHandlerParams) *FlightHandler {
	return &FlightHandler{
		flights: params.Flights,
		logger:  params.Logger,
	}
}

// --- Pages ---

// ListPage renders the flight list with the add-flight form.
func (h *FlightHandler) ListPage(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	flights, err := h.flights.List(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "list.html", map[string]any{
		"Name":    identity.Name,
		"Flights": flights,
	})
}

// CreateFromForm handles the add-flight multipart form post. The optional
// photo upload is stored base64-encoded.
func (h *FlightHandler) CreateFromForm(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	hours, minutes, err := parseScheduledTime(c.FormValue("hours"), c.FormValue("minutes"))
	if err != nil {
		return err
	}

	photo, err := readPhotoUpload(c)
	if err != nil {
		return err
	}

	input := usecase.CreateFlightInput{
		FlightNumber:     c.FormValue("flightNumber"),
		Destination:      c.FormValue("destination"),
		Hours:            hours,
		Minutes:          minutes,
		Gate:             c.FormValue("gate"),
		Status:           c.FormValue("status"),
		Airline:          c.FormValue("airline"),
		DepartureAirport: c.FormValue("departureAirport"),
		ArrivalAirport:   c.FormValue("arrivalAirport"),
		Photo:            photo,
	}

	if _, err := h.flights.Create(c.Request().Context(), identity.ID, input); err != nil {
		return errors.WithStack(err)
	}

	return c.Redirect(http.StatusFound, "/list")
}

// EditPage renders the edit form for one record, looked up by id.
func (h *FlightHandler) EditPage(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	flightID, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return domainerrors.ErrFlightNotFound
	}

	flight, err := h.flights.Get(c.Request().Context(), identity.ID, flightID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Render(http.StatusOK, "edit.html", map[string]any{
		"Name":   identity.Name,
		"Flight": flight,
	})
}

// DetailsPage renders one record, looked up by id.
func (h *FlightHandler) DetailsPage(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	flightID, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return domainerrors.ErrFlightNotFound
	}

	flight, err := h.flights.Get(c.Request().Context(), identity.ID, flightID)
	if err != nil {
		return errors.WithStack(err)
	}

	data := map[string]any{
		"Name":   identity.Name,
		"Flight": flight,
	}
	if flight.Photo != "" {
		// Pre-built so the template engine doesn't reject the data URI.
		data["PhotoURL"] = template.URL("data:image/jpeg;base64," + flight.Photo)
	}

	return c.Render(http.StatusOK, "details.html", data)
}

// UpdateFromForm handles the edit form, posted with a method override to PUT.
func (h *FlightHandler) UpdateFromForm(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	flightID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return domainerrors.ErrFlightNotFound
	}

	input, err := updateInputFromForm(c)
	if err != nil {
		return err
	}

	if err := h.flights.Update(c.Request().Context(), identity.ID, flightID, input); err != nil {
		return errors.WithStack(err)
	}

	return c.Redirect(http.StatusFound, "/list")
}

// DeleteFromForm handles the delete button, posted with a method override.
func (h *FlightHandler) DeleteFromForm(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	if err := h.flights.DeleteByNumber(c.Request().Context(), identity.ID, c.Param("flightNumber")); err != nil {
		return errors.WithStack(err)
	}

	return c.Redirect(http.StatusFound, "/list")
}

// --- JSON API ---

// flightJSON is the wire shape of one record on the API surface.
type flightJSON struct {
	ID               uuid.UUID `json:"id"`
	FlightNumber     string    `json:"flightNumber"`
	Destination      string    `json:"destination"`
	Hours            int       `json:"hours"`
	Minutes          int       `json:"minutes"`
	Gate             string    `json:"gate"`
	Status           string    `json:"status"`
	Airline          string    `json:"airline,omitempty"`
	DepartureAirport string    `json:"departureAirport"`
	ArrivalAirport   string    `json:"arrivalAirport"`
	Photo            string    `json:"photo,omitempty"`
}

func toFlightJSON(flight *entity.Flight) flightJSON {
	return flightJSON{
		ID:               flight.ID,
		FlightNumber:     flight.FlightNumber,
		Destination:      flight.Destination,
		Hours:            flight.Hours,
		Minutes:          flight.Minutes,
		Gate:             flight.Gate,
		Status:           flight.Status,
		Airline:          flight.Airline,
		DepartureAirport: flight.DepartureAirport,
		ArrivalAirport:   flight.ArrivalAirport,
		Photo:            flight.Photo,
	}
}

type createFlightRequest struct {
	FlightNumber     string `json:"flightNumber" validate:"required"`
	Destination      string `json:"destination" validate:"required"`
	Hours            *int   `json:"hours" validate:"required,min=0,max=23"`
	Minutes          *int   `json:"minutes" validate:"required,min=0,max=59"`
	Gate             string `json:"gate"`
	Status           string `json:"status"`
	Airline          string `json:"airline"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`
	Photo            string `json:"photo"`
}

type updateFlightRequest struct {
	FlightNumber     *string `json:"flightNumber" validate:"omitnil,min=1"`
	Destination      *string `json:"destination" validate:"omitnil,min=1"`
	Hours            *int    `json:"hours" validate:"omitnil,min=0,max=23"`
	Minutes          *int    `json:"minutes" validate:"omitnil,min=0,max=59"`
	Gate             *string `json:"gate"`
	Status           *string `json:"status"`
	Airline          *string `json:"airline"`
	DepartureAirport *string `json:"departureAirport"`
	ArrivalAirport   *string `json:"arrivalAirport"`
	Photo            *string `json:"photo"`
}

// ListAPI returns all of the caller's records.
func (h *FlightHandler) ListAPI(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	flights, err := h.flights.List(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	payload := make([]flightJSON, 0, len(flights))
	for _, flight := range flights {
		payload = append(payload, toFlightJSON(flight))
	}

	return response.Success(c, http.StatusOK, payload, "")
}

// CreateAPI adds a record from a JSON body.
func (h *FlightHandler) CreateAPI(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	var req createFlightRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid flight payload")
	}
	if err := c.Validate(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	flight, err := h.flights.Create(c.Request().Context(), identity.ID, usecase.CreateFlightInput{
		FlightNumber:     req.FlightNumber,
		Destination:      req.Destination,
		Hours:            req.Hours,
		Minutes:          req.Minutes,
		Gate:             req.Gate,
		Status:           req.Status,
		Airline:          req.Airline,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		Photo:            req.Photo,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toFlightJSON(flight), "Flight created")
}

// GetAPI returns one record by flight number.
func (h *FlightHandler) GetAPI(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	flight, err := h.flights.GetByNumber(c.Request().Context(), identity.ID, c.Param("flightNumber"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toFlightJSON(flight), "")
}

// UpdateAPI applies a partial update by flight number. Absent JSON fields are
// left untouched.
func (h *FlightHandler) UpdateAPI(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	var req updateFlightRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid flight payload")
	}
	if err := c.Validate(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	input := usecase.UpdateFlightInput{
		FlightNumber:     req.FlightNumber,
		Destination:      req.Destination,
		Hours:            req.Hours,
		Minutes:          req.Minutes,
		Gate:             req.Gate,
		Status:           req.Status,
		Airline:          req.Airline,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		Photo:            req.Photo,
	}
	if err := h.flights.UpdateByNumber(c.Request().Context(), identity.ID, c.Param("flightNumber"), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Flight updated")
}

// DeleteAPI removes one record by flight number.
func (h *FlightHandler) DeleteAPI(c echo.Context) error {
	identity := middleware.CurrentIdentity(c)

	if err := h.flights.DeleteByNumber(c.Request().Context(), identity.ID, c.Param("flightNumber")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Flight deleted")
}

// --- Form helpers ---

// parseScheduledTime converts the posted time fields, keeping an absent
// field as nil so the usecase can enforce presence.
func parseScheduledTime(hoursRaw, minutesRaw string) (*int, *int, error) {
	var hours, minutes *int

	if hoursRaw != "" {
		value, err := strconv.Atoi(hoursRaw)
		if err != nil {
			return nil, nil, domainerrors.ErrValidationFailed.WrapMessage("hours is not a number")
		}
		hours = &value
	}
	if minutesRaw != "" {
		value, err := strconv.Atoi(minutesRaw)
		if err != nil {
			return nil, nil, domainerrors.ErrValidationFailed.WrapMessage("minutes is not a number")
		}
		minutes = &value
	}

	return hours, minutes, nil
}

// readPhotoUpload reads the optional multipart photo and returns it base64
// encoded. A missing file is not an error.
func readPhotoUpload(c echo.Context) (string, error) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return "", nil
	}
	if fileHeader.Size > maxPhotoBytes {
		return "", domainerrors.ErrValidationFailed.WrapMessage("photo too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", errors.Wrap(err, "failed to open photo upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "failed to read photo upload")
	}
	if len(data) > maxPhotoBytes {
		return "", domainerrors.ErrValidationFailed.WrapMessage("photo too large")
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// updateInputFromForm converts the posted edit form into a partial update;
// only fields present in the form are touched.
func updateInputFromForm(c echo.Context) (usecase.UpdateFlightInput, error) {
	var input usecase.UpdateFlightInput

	form, err := c.FormParams()
	if err != nil {
		return input, domainerrors.ErrValidationFailed.WrapMessage("malformed form body")
	}

	stringField := func(name string) *string {
		if !form.Has(name) {
			return nil
		}
		value := form.Get(name)

		return &value
	}
	intField := func(name string) (*int, error) {
		if !form.Has(name) || form.Get(name) == "" {
			return nil, nil
		}
		value, err := strconv.Atoi(form.Get(name))
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WrapMessage(name + " is not a number")
		}

		return &value, nil
	}

	input.FlightNumber = stringField("flightNumber")
	input.Destination = stringField("destination")
	input.Gate = stringField("gate")
	input.Status = stringField("status")
	input.Airline = stringField("airline")
	input.DepartureAirport = stringField("departureAirport")
	input.ArrivalAirport = stringField("arrivalAirport")

	if input.Hours, err = intField("hours"); err != nil {
		return input, err
	}
	if input.Minutes, err = intField("minutes"); err != nil {
		return input, err
	}

	return input, nil
}
