package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/services"
)

type BancoConfigHandler struct {
	bancoConfigService *services.BancoConfigService
}

func NewBancoConfigHandler(bancoConfigService *services.BancoConfigService) *BancoConfigHandler {
	return &BancoConfigHandler{bancoConfigService: bancoConfigService}
}

// @Summary List Bank Configs
// @Description List the active bank API configurations (Admin)
// @Tags BancosConfig
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bancos-config [get]
func (h *BancoConfigHandler) Index(c *gin.Context) {
	configs, err := h.bancoConfigService.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"configuracoes": configs})
}

// @Summary Get Bank Config
// @Tags BancosConfig
// @Produce json
// @Param config_id path int true "Config ID"
// @Success 200 {object} models.BancoAPIConfig
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bancos-config/{config_id} [get]
func (h *BancoConfigHandler) Show(c *gin.Context) {
	config, err := h.bancoConfigService.BuscarPorID(c.Request.Context(), paramID(c, "config_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Configuração não encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configuracao": config})
}

// CredenciaisBancoRequest carries the full config payload, including the
// write-only credential fields
type CredenciaisBancoRequest struct {
	models.BancoAPIConfig
	ClientID         string `json:"client_id"`
	ClientSecret     string `json:"client_secret"`
	CertificadoSenha string `json:"certificado_senha"`
}

func (r *CredenciaisBancoRequest) config() *models.BancoAPIConfig {
	config := r.BancoAPIConfig
	config.ClientID = r.ClientID
	config.ClientSecret = r.ClientSecret
	config.CertificadoSenha = r.CertificadoSenha
	return &config
}

// @Summary Create Bank Config
// @Description Register a bank API configuration. Credentials and certificate
// paths are validated before saving.
// @Tags BancosConfig
// @Accept json
// @Produce json
// @Param request body CredenciaisBancoRequest true "Config data"
// @Success 201 {object} models.BancoAPIConfig
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /bancos-config [post]
func (h *BancoConfigHandler) Create(c *gin.Context) {
	var req CredenciaisBancoRequest
	if err := BindNestedOrFlat(c, "configuracao", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criada, err := h.bancoConfigService.Criar(c.Request.Context(), req.config(), currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"configuracao": criada})
}

// @Summary Update Bank Config
// @Description Update a bank API configuration. The cached token and mTLS
// client are invalidated.
// @Tags BancosConfig
// @Accept json
// @Produce json
// @Param config_id path int true "Config ID"
// @Param request body CredenciaisBancoRequest true "Config data"
// @Success 200 {object} models.BancoAPIConfig
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /bancos-config/{config_id} [put]
func (h *BancoConfigHandler) Update(c *gin.Context) {
	var req CredenciaisBancoRequest
	if err := BindNestedOrFlat(c, "configuracao", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config := req.config()
	config.ID = paramID(c, "config_id")

	atualizada, err := h.bancoConfigService.Atualizar(c.Request.Context(), config, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"configuracao": atualizada})
}

// @Summary Test Bank Connection
// @Description Authenticate against the bank API with the stored credentials
// @Tags BancosConfig
// @Produce json
// @Param config_id path int true "Config ID"
// @Success 200 {object} services.ResultadoTeste
// @Security BearerAuth
// @Router /bancos-config/{config_id}/testar [post]
func (h *BancoConfigHandler) Testar(c *gin.Context) {
	resultado := h.bancoConfigService.TestarConexao(c.Request.Context(), paramID(c, "config_id"))
	c.JSON(http.StatusOK, gin.H{"resultado": resultado})
}
