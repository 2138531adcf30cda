// Package payload renders a completed check-in as the text message sent to
// the hotel, and wraps it in a messaging deep link.
package payload

import (
	"strings"

	"ficha/internal/checkin/models"
	"ficha/internal/mask"
)

const (
	separator   = "--------------------------------"
	legalFooter = "_Tecnologia Stateless (Sem Armazenamento)_"
	deepLinkURL = "https://wa.me/"
)

// Branding carries the tenant values that appear in the message.
type Branding struct {
	Subtitle      string
	MultiLanguage bool
	Language      models.Language
}

// Generate is deterministic: the same entry and branding always produce the
// same text. Optional values that are empty omit their line.
func Generate(entry models.GuestEntry, b Branding) string {
	lines := []string{
		"*FICHA DE CHECK-IN DIGITAL - " + strings.ToUpper(strings.TrimSpace(b.Subtitle)) + "*",
		"",
		"*TITULAR:* " + upper(entry.FullName),
	}

	if entry.IsForeign {
		lines = append(lines,
			"*ESTRANGEIRO:* SIM",
			"*PAÍS:* "+upper(entry.PassportCountry),
			"*PASSAPORTE:* "+trim(entry.PassportID),
		)
	} else {
		lines = append(lines,
			"*CPF:* "+entry.NationalID,
			"*NASCIMENTO:* "+entry.BirthDate,
		)
	}

	lines = append(lines,
		"",
		"*ENDEREÇO:* "+upper(entry.Street)+", "+trim(entry.Number),
		"*LOCALIZAÇÃO:* "+entry.PostalCode+" - "+trim(entry.City)+"/"+upper(entry.Region),
		"*CONTATO:* "+entry.Phone+" | "+strings.ToLower(trim(entry.Email)),
	)
	if room := trim(entry.RoomNumber); room != "" {
		lines = append(lines, "*QUARTO:* "+room)
	}

	lines = append(lines, "")
	if entry.HasVehicle {
		lines = append(lines, "*VEÍCULO:* "+upper(entry.VehicleModel)+" - "+upper(entry.VehicleColor))
		if plate := upper(entry.VehiclePlate); plate != "" {
			lines = append(lines, "*PLACA:* "+plate)
		}
		if exit := trim(entry.ExitTime); exit != "" {
			lines = append(lines, "*SAÍDA:* "+exit)
		}
	} else {
		lines = append(lines, "*VEÍCULO:* NÃO POSSUI")
	}

	lines = append(lines, separator)
	if b.MultiLanguage {
		lang := b.Language
		if lang == "" {
			lang = models.LanguagePT
		}
		lines = append(lines, "*IDIOMA:* "+string(lang))
	}
	lines = append(lines, legalFooter)

	return strings.Join(lines, "\n")
}

// DeepLink builds the wa.me link for a contact handle. Non-digits in the handle
// are dropped and the text is escaped like encodeURIComponent, so spaces are %20.
func DeepLink(handle, text string) string {
	return deepLinkURL + mask.Digits(handle) + "?text=" + EscapeComponent(text)
}

// EscapeComponent percent-encodes every byte outside A-Z a-z 0-9 and -_.!~*'().
func EscapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

func trim(s string) string  { return strings.TrimSpace(s) }
func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
