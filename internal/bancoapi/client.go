package bancoapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/pkcs12"

	"github.com/gestimo/gestimo-api/internal/models"
)

// Base URLs for the bank collection API
const (
	BaseURLSandbox  = "https://api-sandbox.bancoparceiro.com.br/cobranca/v3"
	BaseURLProducao = "https://api.bancoparceiro.com.br/cobranca/v3"

	TokenURLSandbox  = "https://auth-sandbox.bancoparceiro.com.br/oauth/token"
	TokenURLProducao = "https://auth.bancoparceiro.com.br/oauth/token"
)

const requestTimeout = 30 * time.Second

// Client talks to the bank collection REST API. Calls are synchronous and
// never retried in-process; the scheduler re-invokes failed registrations.
type Client struct {
	certificadosPath string

	mu      sync.Mutex
	clients map[uint]*http.Client // mTLS client per bank config
}

// NewClient creates a bank API client. Relative certificate paths resolve
// against certificadosPath.
func NewClient(certificadosPath string) *Client {
	return &Client{
		certificadosPath: certificadosPath,
		clients:          make(map[uint]*http.Client),
	}
}

// TokenResponse is the OAuth2 client-credentials grant response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// APIError carries the HTTP status and raw body of a failed bank call
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("banco API retornou status %d: %s", e.StatusCode, e.Body)
}

// ResolverCaminhoCertificado returns the absolute certificate path for a config
func (c *Client) ResolverCaminhoCertificado(config *models.BancoAPIConfig) string {
	if filepath.IsAbs(config.CertificadoCaminho) {
		return config.CertificadoCaminho
	}
	return filepath.Join(c.certificadosPath, config.CertificadoCaminho)
}

// httpClient returns (building if needed) the mTLS HTTP client for a config
func (c *Client) httpClient(config *models.BancoAPIConfig) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[config.ID]; ok {
		return client, nil
	}

	cert, err := c.carregarCertificado(config)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			},
		},
	}
	c.clients[config.ID] = client
	return client, nil
}

// InvalidarClient drops the cached HTTP client so a renewed certificate is
// picked up on the next call
func (c *Client) InvalidarClient(configID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.clients, configID)
}

// carregarCertificado loads the client certificate from a .pfx/.p12 bundle
// or a PEM file depending on the extension
func (c *Client) carregarCertificado(config *models.BancoAPIConfig) (tls.Certificate, error) {
	caminho := c.ResolverCaminhoCertificado(config)

	data, err := os.ReadFile(caminho)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("leitura do certificado %s: %w", caminho, err)
	}

	ext := strings.ToLower(filepath.Ext(caminho))
	if ext == ".pfx" || ext == ".p12" {
		blocks, err := pkcs12.ToPEM(data, config.CertificadoSenha)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("decodificação PKCS#12 de %s: %w", caminho, err)
		}
		var pemData []byte
		for _, b := range blocks {
			pemData = append(pemData, pem.EncodeToMemory(b)...)
		}
		cert, err := tls.X509KeyPair(pemData, pemData)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("par de chaves do certificado %s: %w", caminho, err)
		}
		return cert, nil
	}

	// PEM bundle holding both certificate and key
	cert, err := tls.X509KeyPair(data, data)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("par de chaves do certificado %s: %w", caminho, err)
	}
	return cert, nil
}

func (c *Client) baseURL(config *models.BancoAPIConfig) string {
	if config.IsProducao() {
		return BaseURLProducao
	}
	return BaseURLSandbox
}

func (c *Client) tokenURL(config *models.BancoAPIConfig) string {
	if config.IsProducao() {
		return TokenURLProducao
	}
	return TokenURLSandbox
}

// ObterToken performs the OAuth2 client-credentials grant over mTLS
func (c *Client) ObterToken(ctx context.Context, config *models.BancoAPIConfig) (*TokenResponse, error) {
	client, err := c.httpClient(config)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", config.ClientID)
	form.Set("client_secret", config.ClientSecret)
	form.Set("scope", "boletos_inclusao boletos_consulta boletos_alteracao")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL(config),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requisição de token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("resposta de token inválida: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("resposta de token sem access_token")
	}
	return &token, nil
}

// Request performs an authenticated JSON call against the collection API.
// It returns the HTTP status, the raw response body and a non-nil error for
// transport failures or non-2xx statuses.
func (c *Client) Request(ctx context.Context, config *models.BancoAPIConfig, accessToken, method, path string, payload any) (int, []byte, error) {
	client, err := c.httpClient(config)
	if err != nil {
		return 0, nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL(config)+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if config.WorkspaceID != "" {
		req.Header.Set("x-workspace-id", config.WorkspaceID)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("requisição %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, body, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp.StatusCode, body, nil
}

// Pagador identifies the payer in a registration payload
type Pagador struct {
	Nome      string `json:"nome"`
	Documento string `json:"documento"`
	Endereco  string `json:"endereco,omitempty"`
	CEP       string `json:"cep,omitempty"`
	Cidade    string `json:"cidade,omitempty"`
	UF        string `json:"uf,omitempty"`
}

// RegistroBoletoRequest is the payload for boleto registration
type RegistroBoletoRequest struct {
	NossoNumero    string  `json:"nossoNumero"`
	SeuNumero      string  `json:"seuNumero"`
	Convenio       string  `json:"numeroConvenio"`
	Carteira       string  `json:"carteira,omitempty"`
	ValorNominal   string  `json:"valorNominal"`
	DataVencimento string  `json:"dataVencimento"` // YYYY-MM-DD
	DataEmissao    string  `json:"dataEmissao"`
	Pagador        Pagador `json:"pagador"`
	ValorMulta     string  `json:"valorMulta,omitempty"`
	JurosDiario    string  `json:"jurosDiario,omitempty"`
	ValorDesconto  string  `json:"valorDesconto,omitempty"`
	LimiteDesconto string  `json:"dataLimiteDesconto,omitempty"`
	Mensagem       *string `json:"mensagem,omitempty"`
	GerarPix       bool    `json:"gerarPix"`
}

// RegistroBoletoResponse is the bank response after registering a boleto
type RegistroBoletoResponse struct {
	NossoNumero    string `json:"nossoNumero"`
	CodigoBarras   string `json:"codigoBarras"`
	LinhaDigitavel string `json:"linhaDigitavel"`
	PixTxID        string `json:"txid"`
	PixQRCode      string `json:"qrCode"`
}

// ConsultaBoletoResponse is the bank response for a boleto status query
type ConsultaBoletoResponse struct {
	NossoNumero   string `json:"nossoNumero"`
	Situacao      string `json:"situacao"` // REGISTRADO, LIQUIDADO, BAIXADO, VENCIDO, PROTESTADO
	ValorPago     string `json:"valorPago,omitempty"`
	DataPagamento string `json:"dataPagamento,omitempty"`
}

// Registrar registers a boleto with the bank
func (c *Client) Registrar(ctx context.Context, config *models.BancoAPIConfig, accessToken string, payload *RegistroBoletoRequest) (*RegistroBoletoResponse, int, []byte, error) {
	status, body, err := c.Request(ctx, config, accessToken, http.MethodPost, "/boletos", payload)
	if err != nil {
		return nil, status, body, err
	}
	var out RegistroBoletoResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, status, body, fmt.Errorf("resposta de registro inválida: %w", err)
	}
	return &out, status, body, nil
}

// Consultar queries the current status of a boleto
func (c *Client) Consultar(ctx context.Context, config *models.BancoAPIConfig, accessToken, nossoNumero string) (*ConsultaBoletoResponse, int, []byte, error) {
	status, body, err := c.Request(ctx, config, accessToken, http.MethodGet, "/boletos/"+nossoNumero, nil)
	if err != nil {
		return nil, status, body, err
	}
	var out ConsultaBoletoResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, status, body, fmt.Errorf("resposta de consulta inválida: %w", err)
	}
	return &out, status, body, nil
}

// Baixar requests the write-off of a registered boleto at the bank
func (c *Client) Baixar(ctx context.Context, config *models.BancoAPIConfig, accessToken, nossoNumero string) (int, []byte, error) {
	return c.Request(ctx, config, accessToken, http.MethodPost, "/boletos/"+nossoNumero+"/baixar", nil)
}

// Protestar sends a registered boleto to protest
func (c *Client) Protestar(ctx context.Context, config *models.BancoAPIConfig, accessToken, nossoNumero string) (int, []byte, error) {
	return c.Request(ctx, config, accessToken, http.MethodPost, "/boletos/"+nossoNumero+"/protestar", nil)
}
