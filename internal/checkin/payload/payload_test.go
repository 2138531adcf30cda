package payload

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficha/internal/checkin/models"
)

func domesticEntry() models.GuestEntry {
	return models.GuestEntry{
		FullName:   "Maria Silva",
		NationalID: "123.456.789-01",
		BirthDate:  "31/12/1990",
		Street:     "SBN Quadra 1",
		Number:     "12",
		PostalCode: "70040-902",
		City:       "Brasília",
		Region:     "df",
		Email:      "Maria@Example.com",
		Phone:      "(61) 98206-2229",
	}
}

func TestGenerateDomesticWithoutVehicle(t *testing.T) {
	got := Generate(domesticEntry(), Branding{Subtitle: "Alpha Plaza Hotel", MultiLanguage: true, Language: models.LanguagePT})

	want := strings.Join([]string{
		"*FICHA DE CHECK-IN DIGITAL - ALPHA PLAZA HOTEL*",
		"",
		"*TITULAR:* MARIA SILVA",
		"*CPF:* 123.456.789-01",
		"*NASCIMENTO:* 31/12/1990",
		"",
		"*ENDEREÇO:* SBN QUADRA 1, 12",
		"*LOCALIZAÇÃO:* 70040-902 - Brasília/DF",
		"*CONTATO:* (61) 98206-2229 | maria@example.com",
		"",
		"*VEÍCULO:* NÃO POSSUI",
		"--------------------------------",
		"*IDIOMA:* PT",
		"_Tecnologia Stateless (Sem Armazenamento)_",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestGenerateForeignGuestWithVehicle(t *testing.T) {
	entry := domesticEntry()
	entry.IsForeign = true
	entry.PassportCountry = "Portugal"
	entry.PassportID = "P1234567"
	entry.RoomNumber = "304"
	entry.HasVehicle = true
	entry.VehicleModel = "Onix"
	entry.VehicleColor = "prata"
	entry.VehiclePlate = "abc1d23"
	entry.ExitTime = "10:00"

	got := Generate(entry, Branding{Subtitle: "Demo Hotel"})

	assert.Contains(t, got, "*ESTRANGEIRO:* SIM\n*PAÍS:* PORTUGAL\n*PASSAPORTE:* P1234567\n")
	assert.NotContains(t, got, "*CPF:*")
	assert.NotContains(t, got, "*NASCIMENTO:*")
	assert.Contains(t, got, "*QUARTO:* 304")
	assert.Contains(t, got, "*VEÍCULO:* ONIX - PRATA\n*PLACA:* ABC1D23\n*SAÍDA:* 10:00")
	assert.NotContains(t, got, "*IDIOMA:*", "language line only when multi-language is on")
}

func TestGenerateOmitsEmptyOptionalLines(t *testing.T) {
	entry := domesticEntry()
	entry.HasVehicle = true
	entry.VehicleModel = "Gol"
	entry.VehicleColor = "Branco"

	got := Generate(entry, Branding{Subtitle: "x"})
	assert.NotContains(t, got, "*PLACA:*")
	assert.NotContains(t, got, "*SAÍDA:*")
	assert.NotContains(t, got, "*QUARTO:*")
}

func TestGenerateIsDeterministic(t *testing.T) {
	b := Branding{Subtitle: "Alpha Plaza Hotel", MultiLanguage: true, Language: models.LanguageES}
	assert.Equal(t, Generate(domesticEntry(), b), Generate(domesticEntry(), b))
}

func TestDeepLink(t *testing.T) {
	link := DeepLink("+55 (61) 98206-2229", "Olá mundo & *bold*\nok")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/5561982062229?text="))
	assert.Contains(t, link, "Ol%C3%A1%20mundo%20%26%20*bold*%0Aok")
	assert.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Olá mundo & *bold*\nok", u.Query().Get("text"))
}

func TestEscapeComponentMatchesURIComponentRules(t *testing.T) {
	assert.Equal(t, "A-z_0.9!~*'()", EscapeComponent("A-z_0.9!~*'()"))
	assert.Equal(t, "%2F%3F%3D%23%2B%20", EscapeComponent("/?=#+ "))
}
