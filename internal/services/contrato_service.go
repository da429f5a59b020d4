package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/statemachine"
)

// ErrImovelOcupado indicates the property already has an active lease
var ErrImovelOcupado = errors.New("imóvel já possui contrato ativo")

// ContratoService manages lease contracts and their recurring charge lines
type ContratoService struct {
	contratoRepo repository.ContratoRepository
	itemRepo     repository.ItemCobrancaRepository
	pessoaRepo   repository.PessoaRepository
	imovelRepo   repository.ImovelRepository
	auditoria    *AuditoriaService
	notificacao  *NotificacaoService
}

// NewContratoService creates a new contract service
func NewContratoService(
	contratoRepo repository.ContratoRepository,
	itemRepo repository.ItemCobrancaRepository,
	pessoaRepo repository.PessoaRepository,
	imovelRepo repository.ImovelRepository,
	auditoria *AuditoriaService,
	notificacao *NotificacaoService,
) *ContratoService {
	return &ContratoService{
		contratoRepo: contratoRepo,
		itemRepo:     itemRepo,
		pessoaRepo:   pessoaRepo,
		imovelRepo:   imovelRepo,
		auditoria:    auditoria,
		notificacao:  notificacao,
	}
}

// DadosContrato carries the fields accepted on contract creation
type DadosContrato struct {
	ImovelID            uint             `json:"imovel_id" binding:"required"`
	InquilinoID         uint             `json:"inquilino_id" binding:"required"`
	ProprietarioID      uint             `json:"proprietario_id" binding:"required"`
	DiaVencimento       int              `json:"dia_vencimento" binding:"required,min=1,max=31"`
	ValorAluguel        decimal.Decimal  `json:"valor_aluguel" binding:"required"`
	TaxaAdminPercentual *decimal.Decimal `json:"taxa_admin_percentual"`
	CobrancaAutomatica  *bool            `json:"cobranca_automatica"`
	EmailAutomatico     *bool            `json:"email_automatico"`
	DataInicio          time.Time        `json:"data_inicio" binding:"required"`
	DataFim             *time.Time       `json:"data_fim"`
	Observacao          *string          `json:"observacao"`
}

// Criar creates a lease contract with a default rent charge line. The property
// must not already carry an active lease.
func (s *ContratoService) Criar(ctx context.Context, dados *DadosContrato, criadorID *uint) (*models.Contrato, error) {
	if _, err := s.imovelRepo.FindByID(ctx, dados.ImovelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.pessoaRepo.FindByID(ctx, dados.InquilinoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.pessoaRepo.FindByID(ctx, dados.ProprietarioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ocupado, err := s.contratoRepo.HasContratoAtivo(ctx, dados.ImovelID)
	if err != nil {
		return nil, err
	}
	if ocupado {
		return nil, ErrImovelOcupado
	}

	contrato := &models.Contrato{
		ImovelID:            dados.ImovelID,
		InquilinoID:         dados.InquilinoID,
		ProprietarioID:      dados.ProprietarioID,
		CriadorID:           criadorID,
		DiaVencimento:       dados.DiaVencimento,
		ValorAluguel:        dados.ValorAluguel,
		TaxaAdminPercentual: dados.TaxaAdminPercentual,
		Status:              models.ContratoStatusAtivo,
		Ativo:               true,
		CobrancaAutomatica:  true,
		EmailAutomatico:     true,
		DataInicio:          dados.DataInicio,
		DataFim:             dados.DataFim,
		Observacao:          dados.Observacao,
	}
	if dados.CobrancaAutomatica != nil {
		contrato.CobrancaAutomatica = *dados.CobrancaAutomatica
	}
	if dados.EmailAutomatico != nil {
		contrato.EmailAutomatico = *dados.EmailAutomatico
	}

	if err := s.contratoRepo.Create(ctx, contrato); err != nil {
		return nil, err
	}

	// Every contract bills at least the rent itself
	aluguel := &models.ItemCobranca{
		ContratoID: contrato.ID,
		Tipo:       models.ItemTipoAluguel,
		Valor:      dados.ValorAluguel,
		TipoValor:  models.TipoValorFixo,
		Ativo:      true,
	}
	if err := s.itemRepo.Create(ctx, aluguel); err != nil {
		return nil, err
	}
	contrato.ItensCobranca = []models.ItemCobranca{*aluguel}

	s.auditoria.RegistrarAsync(criadorID, models.AcaoCreate, "Contrato", contrato.ID,
		fmt.Sprintf("imóvel %d, inquilino %d", contrato.ImovelID, contrato.InquilinoID))

	return contrato, nil
}

// AtualizacaoContrato carries the mutable contract fields
type AtualizacaoContrato struct {
	DiaVencimento       *int             `json:"dia_vencimento" binding:"omitempty,min=1,max=31"`
	ValorAluguel        *decimal.Decimal `json:"valor_aluguel"`
	TaxaAdminPercentual *decimal.Decimal `json:"taxa_admin_percentual"`
	CobrancaAutomatica  *bool            `json:"cobranca_automatica"`
	EmailAutomatico     *bool            `json:"email_automatico"`
	DataFim             *time.Time       `json:"data_fim"`
	Observacao          *string          `json:"observacao"`
}

// Atualizar applies a partial update to a contract
func (s *ContratoService) Atualizar(ctx context.Context, id uint, dados *AtualizacaoContrato, usuarioID *uint) (*models.Contrato, error) {
	contrato, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	if dados.DiaVencimento != nil {
		contrato.DiaVencimento = *dados.DiaVencimento
	}
	if dados.ValorAluguel != nil {
		contrato.ValorAluguel = *dados.ValorAluguel
	}
	if dados.TaxaAdminPercentual != nil {
		contrato.TaxaAdminPercentual = dados.TaxaAdminPercentual
	}
	if dados.CobrancaAutomatica != nil {
		contrato.CobrancaAutomatica = *dados.CobrancaAutomatica
	}
	if dados.EmailAutomatico != nil {
		contrato.EmailAutomatico = *dados.EmailAutomatico
	}
	if dados.DataFim != nil {
		contrato.DataFim = dados.DataFim
	}
	if dados.Observacao != nil {
		contrato.Observacao = dados.Observacao
	}

	if err := s.contratoRepo.Update(ctx, contrato); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Contrato", contrato.ID, "contrato atualizado")

	return contrato, nil
}

// Encerrar closes a contract, recording when and why
func (s *ContratoService) Encerrar(ctx context.Context, id uint, motivo string, usuarioID *uint) (*models.Contrato, error) {
	contrato, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	csm := statemachine.NewContratoFSM(contrato)
	if err := csm.Encerrar(ctx); err != nil {
		return nil, ErrInvalidState
	}

	agora := time.Now()
	contrato.EncerradoEm = &agora
	contrato.Ativo = false
	if motivo != "" {
		contrato.MotivoEncerramento = &motivo
	}

	if err := s.contratoRepo.Update(ctx, contrato); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Contrato", contrato.ID, "contrato encerrado")
	s.notificacao.NotificarAdminsAsync(
		"Contrato encerrado",
		fmt.Sprintf("O contrato #%d foi encerrado.", contrato.ID),
		models.NotificacaoTipoContratoEncerrado)

	return contrato, nil
}

// Suspender pauses billing on an active contract
func (s *ContratoService) Suspender(ctx context.Context, id uint, usuarioID *uint) (*models.Contrato, error) {
	contrato, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	csm := statemachine.NewContratoFSM(contrato)
	if err := csm.Suspender(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.contratoRepo.Update(ctx, contrato); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Contrato", contrato.ID, "contrato suspenso")

	return contrato, nil
}

// Reativar resumes a suspended contract
func (s *ContratoService) Reativar(ctx context.Context, id uint, usuarioID *uint) (*models.Contrato, error) {
	contrato, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	csm := statemachine.NewContratoFSM(contrato)
	if err := csm.Reativar(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.contratoRepo.Update(ctx, contrato); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Contrato", contrato.ID, "contrato reativado")

	return contrato, nil
}

// DadosItemCobranca carries the fields of a recurring charge line
type DadosItemCobranca struct {
	Tipo      string          `json:"tipo" binding:"required"`
	Descricao *string         `json:"descricao"`
	Valor     decimal.Decimal `json:"valor" binding:"required"`
	TipoValor string          `json:"tipo_valor" binding:"omitempty,oneof=fixo percentual"`
	Ativo     *bool           `json:"ativo"`
}

// AdicionarItem attaches a recurring charge line to a contract
func (s *ContratoService) AdicionarItem(ctx context.Context, contratoID uint, dados *DadosItemCobranca, usuarioID *uint) (*models.ItemCobranca, error) {
	contrato, err := s.buscar(ctx, contratoID)
	if err != nil {
		return nil, err
	}

	item := &models.ItemCobranca{
		ContratoID: contrato.ID,
		Tipo:       dados.Tipo,
		Descricao:  dados.Descricao,
		Valor:      dados.Valor,
		TipoValor:  models.TipoValorFixo,
		Ativo:      true,
	}
	if dados.TipoValor != "" {
		item.TipoValor = dados.TipoValor
	}
	if dados.Ativo != nil {
		item.Ativo = *dados.Ativo
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoCreate, "ItemCobranca", item.ID,
		fmt.Sprintf("contrato %d, tipo %s", contrato.ID, item.Tipo))

	return item, nil
}

// AtualizarItem applies a partial update to a recurring charge line
func (s *ContratoService) AtualizarItem(ctx context.Context, contratoID, itemID uint, dados *DadosItemCobranca, usuarioID *uint) (*models.ItemCobranca, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.ContratoID != contratoID {
		return nil, ErrNotFound
	}

	if dados.Tipo != "" {
		item.Tipo = dados.Tipo
	}
	if dados.Descricao != nil {
		item.Descricao = dados.Descricao
	}
	if !dados.Valor.IsZero() {
		item.Valor = dados.Valor
	}
	if dados.TipoValor != "" {
		item.TipoValor = dados.TipoValor
	}
	if dados.Ativo != nil {
		item.Ativo = *dados.Ativo
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "ItemCobranca", item.ID, "item atualizado")

	return item, nil
}

// RemoverItem deletes a recurring charge line from a contract
func (s *ContratoService) RemoverItem(ctx context.Context, contratoID, itemID uint, usuarioID *uint) error {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if item.ContratoID != contratoID {
		return ErrNotFound
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoDelete, "ItemCobranca", itemID, "item removido")

	return nil
}

// ListarItens returns a contract's recurring charge lines
func (s *ContratoService) ListarItens(ctx context.Context, contratoID uint) ([]models.ItemCobranca, error) {
	if _, err := s.buscar(ctx, contratoID); err != nil {
		return nil, err
	}
	return s.itemRepo.FindByContrato(ctx, contratoID)
}

// BuscarPorID returns a contract with its associations loaded
func (s *ContratoService) BuscarPorID(ctx context.Context, id uint) (*models.Contrato, error) {
	contrato, err := s.contratoRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contrato, nil
}

// Listar returns contracts matching the query
func (s *ContratoService) Listar(ctx context.Context, query *repository.ContratoQuery) ([]models.Contrato, int64, error) {
	return s.contratoRepo.List(ctx, query)
}

func (s *ContratoService) buscar(ctx context.Context, id uint) (*models.Contrato, error) {
	contrato, err := s.contratoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contrato, nil
}
