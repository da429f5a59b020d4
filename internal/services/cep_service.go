package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/pkg/logger"
)

// Cached lookups refresh after this window
const cepCacheTTL = 30 * 24 * time.Hour

var cepRegex = regexp.MustCompile(`^\d{8}$`)

// ErrCEPInvalido indicates a malformed postal code
var ErrCEPInvalido = errors.New("CEP inválido: informe 8 dígitos")

// CepService resolves postal codes via ViaCEP with a database cache
type CepService struct {
	enderecoRepo repository.EnderecoRepository
	baseURL      string
	httpClient   *http.Client
}

// NewCepService creates a new postal-code lookup service
func NewCepService(enderecoRepo repository.EnderecoRepository, baseURL string) *CepService {
	return &CepService{
		enderecoRepo: enderecoRepo,
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

type viaCEPResponse struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	IBGE        string `json:"ibge"`
	Erro        bool   `json:"erro"`
}

// Buscar resolves a CEP, cache-first. Digits only; dashes are stripped by the
// handler before reaching here.
func (s *CepService) Buscar(ctx context.Context, cep string) (*models.EnderecoCEP, error) {
	if !cepRegex.MatchString(cep) {
		return nil, ErrCEPInvalido
	}

	cached, err := s.enderecoRepo.FindByCEP(ctx, cep)
	if err == nil && !cached.IsExpirado(cepCacheTTL) {
		return cached, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	endereco, err := s.consultarViaCEP(ctx, cep)
	if err != nil {
		// A stale cache entry still beats an error when the service is down
		if cached != nil {
			logger.Warn("ViaCEP indisponível, usando cache expirado", "cep", cep, "error", err)
			return cached, nil
		}
		return nil, err
	}

	if err := s.enderecoRepo.Upsert(ctx, endereco); err != nil {
		logger.Warn("Falha ao gravar cache de CEP", "cep", cep, "error", err)
	}
	return endereco, nil
}

func (s *CepService) consultarViaCEP(ctx context.Context, cep string) (*models.EnderecoCEP, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", s.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("consulta ViaCEP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ViaCEP retornou status %d", resp.StatusCode)
	}

	var out viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("resposta ViaCEP inválida: %w", err)
	}
	if out.Erro {
		return nil, ErrNotFound
	}

	return &models.EnderecoCEP{
		CEP:         cep,
		Logradouro:  out.Logradouro,
		Complemento: out.Complemento,
		Bairro:      out.Bairro,
		Cidade:      out.Localidade,
		UF:          out.UF,
		IBGE:        out.IBGE,
	}, nil
}
