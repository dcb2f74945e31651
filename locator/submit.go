package locator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"opta/gateway"
	"opta/model"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidForm      = errors.New("invalid address form")
	ErrNotAuthenticated = errors.New("no signed-in user")
	ErrNoAddress        = errors.New("no resolved address to submit")
)

// AddressSubmitter is the part of the API gateway the flow needs.
type AddressSubmitter interface {
	SubmitAddress(ctx context.Context, record model.AddressRecord, idempotencyKey string) (string, error)
}

// UserSource yields the signed-in user id, if any.
type UserSource interface {
	UserID() *int
}

// Form is what the user fills in before confirming the pin.
type Form struct {
	HouseNumber      string    `validate:"required,max=100"`
	ApartmentDetails string    `validate:"required,max=200"`
	Tag              model.Tag `validate:"required,oneof=home work users marker"`
}

var formValidator = validator.New()

func (f Form) Validate() error {
	f.HouseNumber = strings.TrimSpace(f.HouseNumber)
	f.ApartmentDetails = strings.TrimSpace(f.ApartmentDetails)
	if err := formValidator.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s %s", ErrInvalidForm, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return nil
}

// ComposeAddress joins the free-text parts in the order the backend stores them.
func ComposeAddress(houseNumber, apartmentDetails string, resolved model.ResolvedAddress) string {
	parts := []string{
		strings.TrimSpace(houseNumber),
		strings.TrimSpace(apartmentDetails),
		resolved.MainLocation,
	}
	if resolved.SubLocation != "" {
		parts = append(parts, resolved.SubLocation)
	}
	return strings.Join(parts, ", ")
}

// submitMessage is the text shown next to the confirm button after a failure.
func submitMessage(err error) string {
	var vErr *gateway.ValidationError
	var netErr *gateway.NetworkError
	switch {
	case errors.As(err, &vErr) && vErr.Detail != "":
		return vErr.Detail
	case errors.As(err, &netErr):
		return "Failed to connect to the server. Please try again later."
	case errors.Is(err, context.Canceled):
		return "Submission cancelled"
	}
	return "Could not save address. Please try again."
}
