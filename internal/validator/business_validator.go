package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/62String/devicerent-sub000/internal/models"
)

// BusinessValidator layers cross-field business rules on top of the tag rules.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator(validate *validator.Validate) *BusinessValidator {
	return &BusinessValidator{validate: validate}
}

func registerCustomRules(v *validator.Validate) {
	// Account ids are URL-safe identifiers.
	_ = v.RegisterValidation("account_id", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9':
			case r == '-' || r == '_' || r == '.':
			default:
				return false
			}
		}
		return true
	})

	// Positions come from the closed enumeration only.
	_ = v.RegisterValidation("known_position", func(fl validator.FieldLevel) bool {
		_, ok := models.PositionTable[models.Position(fl.Field().String())]
		return ok
	})
}

// ValidateRegister checks registration rules that span multiple fields.
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	var errs ValidationErrors

	if err := bv.validate.Struct(req); err != nil {
		errs = append(errs, ToValidationErrors(err)...)
	}

	if req.Password != "" && req.PasswordConfirm != "" && req.Password != req.PasswordConfirm {
		errs = append(errs, ValidationError{
			Field:   "PasswordConfirm",
			Rule:    "eqfield",
			Message: "password and password confirmation do not match",
		})
	}

	return errs
}

// ValidateExportWindow rejects inverted explicit date ranges.
func (bv *BusinessValidator) ValidateExportWindow(req *HistoryExportRequest) ValidationErrors {
	var errs ValidationErrors

	if err := bv.validate.Struct(req); err != nil {
		errs = append(errs, ToValidationErrors(err)...)
	}

	if req.Period == "" && req.StartDate == "" && req.EndDate == "" {
		errs = append(errs, ValidationError{
			Field:   "Period",
			Rule:    "required_without",
			Message: "either period or start_date/end_date is required",
		})
	}

	if req.StartDate != "" && req.EndDate != "" && req.StartDate > req.EndDate {
		errs = append(errs, ValidationError{
			Field:   "StartDate",
			Rule:    "ltefield",
			Message: "start_date must not be after end_date",
		})
	}

	return errs
}
