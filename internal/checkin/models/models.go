package models

import (
	"strings"
	"time"
)

// Field names a form input. Values are the wire names used by the HTTP API.
type Field string

const (
	FieldFullName        Field = "full_name"
	FieldIsForeign       Field = "is_foreign"
	FieldPassportCountry Field = "passport_country"
	FieldPassportID      Field = "passport_id"
	FieldNationalID      Field = "national_id"
	FieldBirthDate       Field = "birth_date"
	FieldStreet          Field = "street"
	FieldNumber          Field = "number"
	FieldPostalCode      Field = "postal_code"
	FieldCity            Field = "city"
	FieldRegion          Field = "region"
	FieldEmail           Field = "email"
	FieldPhone           Field = "phone"
	FieldRoomNumber      Field = "room_number"
	FieldHasVehicle      Field = "has_vehicle"
	FieldVehicleModel    Field = "vehicle_model"
	FieldVehicleColor    Field = "vehicle_color"
	FieldVehiclePlate    Field = "vehicle_plate"
	FieldExitTime        Field = "exit_time"
)

var knownFields = map[Field]struct{}{
	FieldFullName: {}, FieldIsForeign: {}, FieldPassportCountry: {}, FieldPassportID: {},
	FieldNationalID: {}, FieldBirthDate: {}, FieldStreet: {}, FieldNumber: {},
	FieldPostalCode: {}, FieldCity: {}, FieldRegion: {}, FieldEmail: {}, FieldPhone: {},
	FieldRoomNumber: {}, FieldHasVehicle: {}, FieldVehicleModel: {}, FieldVehicleColor: {},
	FieldVehiclePlate: {}, FieldExitTime: {},
}

func ParseField(s string) (Field, bool) {
	f := Field(strings.TrimSpace(s))
	_, ok := knownFields[f]
	return f, ok
}

// GuestEntry is one guest's form. It lives only in process memory.
type GuestEntry struct {
	FullName        string `json:"full_name"`
	IsForeign       bool   `json:"is_foreign"`
	PassportCountry string `json:"passport_country"`
	PassportID      string `json:"passport_id"`
	NationalID      string `json:"national_id"`
	BirthDate       string `json:"birth_date"`
	Street          string `json:"street"`
	Number          string `json:"number"`
	PostalCode      string `json:"postal_code"`
	City            string `json:"city"`
	Region          string `json:"region"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	RoomNumber      string `json:"room_number"`
	HasVehicle      bool   `json:"has_vehicle"`
	VehicleModel    string `json:"vehicle_model"`
	VehicleColor    string `json:"vehicle_color"`
	VehiclePlate    string `json:"vehicle_plate"`
	ExitTime        string `json:"exit_time"`
}

// FieldErrors maps a field to a user-facing message. Empty means valid.
type FieldErrors map[Field]string

func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

type Language string

const (
	LanguagePT Language = "PT"
	LanguageEN Language = "EN"
	LanguageES Language = "ES"
)

func ParseLanguage(s string) (Language, bool) {
	switch l := Language(strings.ToUpper(strings.TrimSpace(s))); l {
	case LanguagePT, LanguageEN, LanguageES:
		return l, true
	default:
		return "", false
	}
}

// Delivery is what a Dispatcher hands to the messaging channel.
type Delivery struct {
	TenantID      string
	ContactHandle string
	DeepLink      string
}

// SubmitResult reports the outcome of a submit attempt. A result with
// Submitted=false is not an error: the form simply isn't ready.
type SubmitResult struct {
	Submitted             bool        `json:"submitted"`
	DeepLink              string      `json:"deep_link,omitempty"`
	Payload               string      `json:"payload,omitempty"`
	Errors                FieldErrors `json:"errors,omitempty"`
	AcknowledgementNeeded bool        `json:"acknowledgement_needed,omitempty"`
}

// SessionView is a point-in-time copy of a session for rendering.
type SessionView struct {
	ID               string      `json:"id"`
	TenantID         string      `json:"tenant_id"`
	Entry            GuestEntry  `json:"entry"`
	Errors           FieldErrors `json:"errors"`
	Acknowledged     bool        `json:"acknowledged"`
	Language         Language    `json:"language"`
	Focus            Field       `json:"focus,omitempty"`
	LookingUpAddress bool        `json:"looking_up_address"`
	TrialState       string      `json:"trial_state"`
	TrialCountdown   string      `json:"trial_countdown,omitempty"`
	LastActivity     time.Time   `json:"last_activity"`
}
