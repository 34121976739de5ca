package identity

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/validator"
)

type RegisterRequest struct {
	UserID  string   `json:"user_id" validate:"required,max=128"`
	Aliases []string `json:"aliases" validate:"max=16"`
}

func (r *RegisterRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if strings.Contains(r.UserID, "/") {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must not contain '/'"})
	}
	for i, alias := range r.Aliases {
		field := fmt.Sprintf("aliases[%d]", i)
		switch {
		case validator.IsEmpty(alias):
			errs = append(errs, validator.ValidationError{Field: field, Message: "alias must not be empty"})
		case strings.Contains(alias, "/"):
			errs = append(errs, validator.ValidationError{Field: field, Message: "alias must not contain '/'"})
		case len(alias) > 128:
			errs = append(errs, validator.ValidationError{Field: field, Message: "alias must be at most 128 characters"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RegisterResponse struct {
	UserID  string   `json:"user_id"`
	Aliases []string `json:"aliases"`
}
