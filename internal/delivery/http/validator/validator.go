// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"net/http"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// echoValidator wraps the validator instance echo calls on c.Validate.
type echoValidator struct {
	validate *playground.Validate
}

// New creates the request validator used by the echo server.
func New() echo.Validator {
	return &echoValidator{validate: playground.New()}
}

// Validate runs struct-tag validation and converts failures into a 400.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
