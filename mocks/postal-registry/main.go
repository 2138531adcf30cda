package main

import (
	"crypto/sha256"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort        = "8082"
	defaultLatencyMs   = "50"
	defaultSlowLatency = "3000"
)

// AddressResponse follows the ViaCEP JSON shape.
type AddressResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
}

var (
	latencyMs     = getEnvInt("LATENCY_MS", defaultLatencyMs)
	slowLatencyMs = getEnvInt("SLOW_LATENCY_MS", defaultSlowLatency)
)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/ws/", handleLookup)

	log.Printf("Mock postal registry starting on port %s", port)
	log.Printf("Simulated latency: %dms (slow codes: %dms)", latencyMs, slowLatencyMs)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "postal-registry",
	})
}

// knownAddresses are fixed records for tests that assert on real values.
var knownAddresses = map[string]AddressResponse{
	"01001000": {CEP: "01001-000", Logradouro: "Praça da Sé", Complemento: "lado ímpar", Bairro: "Sé", Localidade: "São Paulo", UF: "SP"},
	"70040010": {CEP: "70040-010", Logradouro: "SBN Quadra 1", Bairro: "Asa Norte", Localidade: "Brasília", UF: "DF"},
	"20040020": {CEP: "20040-020", Logradouro: "Praça Pio X", Bairro: "Centro", Localidade: "Rio de Janeiro", UF: "RJ"},
}

// Magic codes that let callers drive each failure path.
const (
	cepNotFound       = "99999999" // {"erro": true}
	cepNotFoundString = "99999998" // {"erro": "true"}
	cepSlow           = "11111111" // answers after SLOW_LATENCY_MS
	cepOutage         = "22222222" // 503
	cepMalformed      = "33333333" // broken JSON
)

// handleLookup serves GET /ws/{cep}/json/.
func handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] != "json" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	cep := parts[1]
	log.Printf("lookup %s from %s", cep, r.RemoteAddr)

	if len(cep) != 8 || strings.Trim(cep, "0123456789") != "" {
		// ViaCEP answers malformed codes with a 400 and an HTML body.
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	delay := latencyMs
	if cep == cepSlow {
		delay = slowLatencyMs
	}
	time.Sleep(time.Duration(delay) * time.Millisecond)

	switch cep {
	case cepNotFound:
		writeJSON(w, http.StatusOK, map[string]bool{"erro": true})
	case cepNotFoundString:
		writeJSON(w, http.StatusOK, map[string]string{"erro": "true"})
	case cepOutage:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "upstream unavailable"})
	case cepMalformed:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"cep": "33333-333", "logradouro": `))
	default:
		addr, ok := knownAddresses[cep]
		if !ok {
			addr = generateAddress(cep)
		}
		writeJSON(w, http.StatusOK, addr)
	}
}

// generateAddress returns a stable record for any other code.
func generateAddress(cep string) AddressResponse {
	hash := sha256.Sum256([]byte(cep))
	n := int(hash[0])

	streets := []string{"Rua das Flores", "Avenida Brasil", "Rua XV de Novembro", "Rua da Paz", "Avenida Paulista", "Rua Sete de Setembro"}
	districts := []string{"Centro", "Jardim América", "Vila Nova", "Boa Vista", "Santa Cecília"}
	cities := []struct{ name, uf string }{
		{"Curitiba", "PR"}, {"Belo Horizonte", "MG"}, {"Salvador", "BA"},
		{"Recife", "PE"}, {"Porto Alegre", "RS"}, {"Goiânia", "GO"},
	}
	city := cities[(n*3)%len(cities)]

	return AddressResponse{
		CEP:        cep[:5] + "-" + cep[5:],
		Logradouro: streets[n%len(streets)],
		Bairro:     districts[(n*2)%len(districts)],
		Localidade: city.name,
		UF:         city.uf,
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
