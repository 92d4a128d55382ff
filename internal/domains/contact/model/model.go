package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MaxNameLength    = 100
	MaxMessageLength = 5000

	ErrCodeValidation = "CNT001"
	ErrCodeQueue      = "CNT002"
)

var singleLine = regexp.MustCompile(`^[^\r\n]*$`)

// ContactRequest is the body of POST /api/v1/contact
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r ContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, MaxNameLength),
			validation.Match(singleLine).Error("name must be a single line"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("email must be a valid email address"),
		),
		validation.Field(&r.Message,
			validation.Required.Error("message is required"),
			validation.RuneLength(1, MaxMessageLength),
		),
	)
}
