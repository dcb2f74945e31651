package locator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"opta/gateway"
	"opta/model"

	"github.com/stretchr/testify/assert"
)

func TestComposeAddress(t *testing.T) {
	resolved := model.ResolvedAddress{MainLocation: "Springfield", SubLocation: "IL"}
	assert.Equal(t, "12B, Oak Rd, Springfield, IL", ComposeAddress("12B", "Oak Rd", resolved))
	assert.Equal(t, "12B, Oak Rd, Springfield", ComposeAddress(" 12B ", "Oak Rd", model.ResolvedAddress{MainLocation: "Springfield"}))
}

func TestFormValidate(t *testing.T) {
	assert.NoError(t, Form{HouseNumber: "12B", ApartmentDetails: "Oak Rd", Tag: model.TagHome}.Validate())

	for name, f := range map[string]Form{
		"no house":        {ApartmentDetails: "Oak Rd", Tag: model.TagHome},
		"no apartment":    {HouseNumber: "12B", Tag: model.TagWork},
		"blank house":     {HouseNumber: "   ", ApartmentDetails: "Oak Rd", Tag: model.TagHome},
		"blank apartment": {HouseNumber: "12B", ApartmentDetails: "\t\n", Tag: model.TagHome},
		"no tag":          {HouseNumber: "12B", ApartmentDetails: "Oak Rd"},
		"unknown tag":     {HouseNumber: "12B", ApartmentDetails: "Oak Rd", Tag: "gym"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, f.Validate(), ErrInvalidForm)
		})
	}
}

func TestSubmitMessage(t *testing.T) {
	assert.Equal(t, "Bad request: tag is required",
		submitMessage(&gateway.ValidationError{Status: 400, Detail: "Bad request: tag is required"}))
	assert.Equal(t, "Failed to connect to the server. Please try again later.",
		submitMessage(fmt.Errorf("submit: %w", &gateway.NetworkError{Op: "submit address", Err: errors.New("refused")})))
	assert.Equal(t, "Submission cancelled", submitMessage(context.Canceled))
	assert.Equal(t, "Could not save address. Please try again.", submitMessage(errors.New("boom")))
}
