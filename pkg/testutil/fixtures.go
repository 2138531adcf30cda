package testutil

import (
	"time"

	checkinmodels "ficha/internal/checkin/models"
	tenantmodels "ficha/internal/tenant/models"
)

// TestIDs provides fixed tenant and session IDs for deterministic test data.
var TestIDs = struct {
	TenantID1  string
	TenantID2  string
	SessionID1 string
	SessionID2 string
}{
	TenantID1:  "hotel-copacabana",
	TenantID2:  "pousada-do-sol",
	SessionID1: "eeee0000-0000-0000-0000-000000000001",
	SessionID2: "eeee0000-0000-0000-0000-000000000002",
}

// GuestBuilder provides a fluent interface for building guest entries.
type GuestBuilder struct {
	entry checkinmodels.GuestEntry
}

// NewGuestBuilder returns a builder for a domestic guest whose entry passes
// validation as-is.
func NewGuestBuilder() *GuestBuilder {
	return &GuestBuilder{
		entry: checkinmodels.GuestEntry{
			FullName:   "Maria Silva",
			NationalID: "123.456.789-01",
			BirthDate:  "01/02/1990",
			Street:     "Praça da Sé",
			Number:     "100",
			PostalCode: "01001-000",
			City:       "São Paulo",
			Region:     "SP",
			Email:      "maria@example.com",
			Phone:      "(11) 98765-4321",
			RoomNumber: "204",
		},
	}
}

// AsForeigner swaps the national document for a passport.
func (b *GuestBuilder) AsForeigner(country, passport string) *GuestBuilder {
	b.entry.IsForeign = true
	b.entry.PassportCountry = country
	b.entry.PassportID = passport
	b.entry.NationalID = ""
	b.entry.BirthDate = ""
	return b
}

func (b *GuestBuilder) WithVehicle(model, color, plate, exit string) *GuestBuilder {
	b.entry.HasVehicle = true
	b.entry.VehicleModel = model
	b.entry.VehicleColor = color
	b.entry.VehiclePlate = plate
	b.entry.ExitTime = exit
	return b
}

func (b *GuestBuilder) WithRoom(room string) *GuestBuilder {
	b.entry.RoomNumber = room
	return b
}

func (b *GuestBuilder) WithEmail(email string) *GuestBuilder {
	b.entry.Email = email
	return b
}

func (b *GuestBuilder) Build() checkinmodels.GuestEntry {
	return b.entry
}

// Fields returns the entry as raw field edits, in form order.
func (b *GuestBuilder) Fields() []FieldEdit {
	e := b.entry
	edits := []FieldEdit{{checkinmodels.FieldFullName, e.FullName}}
	if e.IsForeign {
		edits = append(edits,
			FieldEdit{checkinmodels.FieldIsForeign, "true"},
			FieldEdit{checkinmodels.FieldPassportCountry, e.PassportCountry},
			FieldEdit{checkinmodels.FieldPassportID, e.PassportID},
		)
	} else {
		edits = append(edits,
			FieldEdit{checkinmodels.FieldNationalID, e.NationalID},
			FieldEdit{checkinmodels.FieldBirthDate, e.BirthDate},
		)
	}
	edits = append(edits,
		FieldEdit{checkinmodels.FieldStreet, e.Street},
		FieldEdit{checkinmodels.FieldNumber, e.Number},
		FieldEdit{checkinmodels.FieldPostalCode, e.PostalCode},
		FieldEdit{checkinmodels.FieldCity, e.City},
		FieldEdit{checkinmodels.FieldRegion, e.Region},
		FieldEdit{checkinmodels.FieldEmail, e.Email},
		FieldEdit{checkinmodels.FieldPhone, e.Phone},
		FieldEdit{checkinmodels.FieldRoomNumber, e.RoomNumber},
	)
	if e.HasVehicle {
		edits = append(edits,
			FieldEdit{checkinmodels.FieldHasVehicle, "true"},
			FieldEdit{checkinmodels.FieldVehicleModel, e.VehicleModel},
			FieldEdit{checkinmodels.FieldVehicleColor, e.VehicleColor},
			FieldEdit{checkinmodels.FieldVehiclePlate, e.VehiclePlate},
			FieldEdit{checkinmodels.FieldExitTime, e.ExitTime},
		)
	}
	return edits
}

// FieldEdit is one raw form edit.
type FieldEdit struct {
	Field checkinmodels.Field
	Value string
}

// TenantBuilder provides a fluent interface for building tenant configs.
type TenantBuilder struct {
	cfg *tenantmodels.TenantConfig
}

// NewTenantBuilder returns a licensed tenant with both features enabled.
func NewTenantBuilder() *TenantBuilder {
	return &TenantBuilder{
		cfg: &tenantmodels.TenantConfig{
			ID:            TestIDs.TenantID1,
			Name:          "Hotel Copacabana",
			Subtitle:      "Hotel Copacabana",
			ContactHandle: "5521999990000",
			AccentColor:   tenantmodels.AccentGold,
			Features:      tenantmodels.Features{MultiLanguageEnabled: true, GarageEnabled: true},
			FooterText:    "Hotel Copacabana",
			LicenseKey:    "LIC-TEST",
		},
	}
}

func (b *TenantBuilder) WithID(id string) *TenantBuilder {
	b.cfg.ID = id
	return b
}

func (b *TenantBuilder) WithSubtitle(subtitle string) *TenantBuilder {
	b.cfg.Subtitle = subtitle
	return b
}

func (b *TenantBuilder) WithFeatures(multiLanguage, garage bool) *TenantBuilder {
	b.cfg.Features = tenantmodels.Features{MultiLanguageEnabled: multiLanguage, GarageEnabled: garage}
	return b
}

// InTrial drops the license key and starts the trial at createdAt.
func (b *TenantBuilder) InTrial(createdAt time.Time) *TenantBuilder {
	b.cfg.LicenseKey = ""
	b.cfg.CreatedAt = &createdAt
	return b
}

func (b *TenantBuilder) Build() *tenantmodels.TenantConfig {
	return b.cfg.Clone()
}
