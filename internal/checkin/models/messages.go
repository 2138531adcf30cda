package models

// messages holds the validation copy for each supported language.
var messages = map[Language]map[Field]string{
	LanguagePT: {
		FieldFullName:        "Nome completo é obrigatório",
		FieldPassportCountry: "País é obrigatório",
		FieldPassportID:      "Passaporte é obrigatório",
		FieldNationalID:      "CPF inválido",
		FieldBirthDate:       "Data inválida",
		FieldStreet:          "Endereço é obrigatório",
		FieldNumber:          "Número é obrigatório",
		FieldPostalCode:      "CEP inválido",
		FieldCity:            "Cidade é obrigatória",
		FieldRegion:          "Estado é obrigatório",
		FieldEmail:           "E-mail inválido",
		FieldPhone:           "Telefone inválido",
		FieldVehicleModel:    "Modelo é obrigatório",
		FieldVehicleColor:    "Cor é obrigatória",
	},
	LanguageEN: {
		FieldFullName:        "Full name is required",
		FieldPassportCountry: "Country is required",
		FieldPassportID:      "Passport is required",
		FieldNationalID:      "Invalid CPF",
		FieldBirthDate:       "Invalid date",
		FieldStreet:          "Address is required",
		FieldNumber:          "Number is required",
		FieldPostalCode:      "Invalid postal code",
		FieldCity:            "City is required",
		FieldRegion:          "State is required",
		FieldEmail:           "Invalid e-mail",
		FieldPhone:           "Invalid phone",
		FieldVehicleModel:    "Model is required",
		FieldVehicleColor:    "Color is required",
	},
	LanguageES: {
		FieldFullName:        "El nombre completo es obligatorio",
		FieldPassportCountry: "El país es obligatorio",
		FieldPassportID:      "El pasaporte es obligatorio",
		FieldNationalID:      "CPF inválido",
		FieldBirthDate:       "Fecha inválida",
		FieldStreet:          "La dirección es obligatoria",
		FieldNumber:          "El número es obligatorio",
		FieldPostalCode:      "Código postal inválido",
		FieldCity:            "La ciudad es obligatoria",
		FieldRegion:          "El estado es obligatorio",
		FieldEmail:           "Correo electrónico inválido",
		FieldPhone:           "Teléfono inválido",
		FieldVehicleModel:    "El modelo es obligatorio",
		FieldVehicleColor:    "El color es obligatorio",
	},
}

// Message returns the validation copy for f, falling back to Portuguese.
func Message(lang Language, f Field) string {
	if m, ok := messages[lang][f]; ok {
		return m
	}
	return messages[LanguagePT][f]
}
