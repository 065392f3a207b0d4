package validator

import (
	"errors"
	"fmt"
	"strings"

	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// CatalogValidator checks reference data before it is provisioned.
type CatalogValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCatalogValidator(log *logger.Logger) *CatalogValidator {
	return &CatalogValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   log,
	}
}

func (v *CatalogValidator) ValidateService(s *model.Service) error {
	return v.check(s)
}

func (v *CatalogValidator) ValidateBranch(b *model.Branch) error {
	return v.check(b)
}

// ValidatePractitioner also checks the affiliation against the known branches.
func (v *CatalogValidator) ValidatePractitioner(p *model.Practitioner, branches map[string]*model.Branch) error {
	if err := v.check(p); err != nil {
		return err
	}
	if p.BranchID != "" {
		if _, ok := branches[p.BranchID]; !ok {
			return ValidationErrors{{Field: "BranchID", Message: fmt.Sprintf("unknown branch %q", p.BranchID)}}
		}
	}
	return nil
}

func (v *CatalogValidator) check(entry any) error {
	if err := v.validate.Struct(entry); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}
		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}
	return out
}
