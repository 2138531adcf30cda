package handler

import (
	"strings"

	"ficha/internal/checkin/models"
	dErrors "ficha/pkg/domain-errors"
	"ficha/pkg/validation"
)

// FieldChangeRequest is one raw edit, as typed by the guest.
type FieldChangeRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value" validate:"max=256"`

	field models.Field
}

func (r *FieldChangeRequest) Normalize() {
	r.Field = strings.ToLower(strings.TrimSpace(r.Field))
}

func (r *FieldChangeRequest) Validate() error {
	if err := validation.Validate(r); err != nil {
		return err
	}
	f, ok := models.ParseField(r.Field)
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "unknown field "+r.Field)
	}
	r.field = f
	return nil
}

type AcknowledgementRequest struct {
	Acknowledged bool `json:"acknowledged"`
}

type LanguageRequest struct {
	Language string `json:"language" validate:"required,oneof=PT EN ES"`
}

func (r *LanguageRequest) Normalize() {
	r.Language = strings.ToUpper(strings.TrimSpace(r.Language))
}

func (r *LanguageRequest) Validate() error {
	return validation.Validate(r)
}
