package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestimo/gestimo-api/pkg/moeda"
)

// Boleto represents a bank payment slip registered against the collection API
type Boleto struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	BancoConfigID uint  `gorm:"not null;index" json:"banco_config_id"`
	LancamentoID  *uint `gorm:"index" json:"lancamento_id"`
	PagadorID     uint  `gorm:"not null;index" json:"pagador_id"`

	// Identification
	NossoNumero string `gorm:"size:20;uniqueIndex" json:"nosso_numero"`
	SeuNumero   string `gorm:"size:36" json:"seu_numero"`

	// Monetary fields
	ValorNominal  decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"valor_nominal"`
	ValorDesconto *decimal.Decimal `gorm:"type:decimal(15,2)" json:"valor_desconto"`
	ValorMulta    *decimal.Decimal `gorm:"type:decimal(15,2)" json:"valor_multa"`
	JurosDiario   *decimal.Decimal `gorm:"type:decimal(15,4)" json:"juros_diario"`
	Abatimento    *decimal.Decimal `gorm:"type:decimal(15,2)" json:"abatimento"`

	// Dates
	DataEmissao      time.Time  `gorm:"type:date;not null" json:"data_emissao"`
	DataVencimento   time.Time  `gorm:"type:date;not null;index" json:"data_vencimento"`
	LimiteDesconto   *time.Time `gorm:"type:date" json:"limite_desconto"`
	InicioMulta      *time.Time `gorm:"type:date" json:"inicio_multa"`
	InicioJuros      *time.Time `gorm:"type:date" json:"inicio_juros"`
	DataRegistro     *time.Time `json:"data_registro"`
	DataPagamento    *time.Time `json:"data_pagamento"`
	DataBaixa        *time.Time `json:"data_baixa"`

	// Data returned by the bank
	CodigoBarras   *string `json:"codigo_barras"`
	LinhaDigitavel *string `json:"linha_digitavel"`
	PixTxID        *string `json:"pix_txid"`
	PixQRCode      *string `gorm:"type:text" json:"pix_qrcode"`

	Status             string     `gorm:"default:pendente;not null;index" json:"status"`
	Mensagem           *string    `json:"mensagem"`
	TentativasRegistro int        `gorm:"default:0" json:"tentativas_registro"`
	UltimoErro         *string    `gorm:"type:text" json:"ultimo_erro"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Associations
	BancoConfig BancoAPIConfig `gorm:"foreignKey:BancoConfigID" json:"banco_config,omitempty"`
	Lancamento  *Lancamento    `gorm:"foreignKey:LancamentoID" json:"lancamento,omitempty"`
	Pagador     Pessoa         `gorm:"foreignKey:PagadorID" json:"pagador,omitempty"`
	Logs        []BoletoAPILog `gorm:"foreignKey:BoletoID" json:"logs,omitempty"`
}

// TableName specifies the table name for Boleto
func (Boleto) TableName() string {
	return "boletos"
}

// Boleto status constants
const (
	BoletoStatusPendente   = "pendente"
	BoletoStatusRegistrado = "registrado"
	BoletoStatusPago       = "pago"
	BoletoStatusVencido    = "vencido"
	BoletoStatusBaixado    = "baixado"
	BoletoStatusProtestado = "protestado"
	BoletoStatusErro       = "erro"
)

// MayRegistrar returns true if the boleto can be sent to the bank
func (b *Boleto) MayRegistrar() bool {
	return b.Status == BoletoStatusPendente || b.Status == BoletoStatusErro
}

// MayDeletar returns true only before the boleto reaches the bank
func (b *Boleto) MayDeletar() bool {
	return b.Status == BoletoStatusPendente
}

// MayBaixar returns true if the boleto can be written off at the bank
func (b *Boleto) MayBaixar() bool {
	return b.Status == BoletoStatusRegistrado || b.Status == BoletoStatusVencido
}

// MayProtestar returns true if the boleto can be sent to protest
func (b *Boleto) MayProtestar() bool {
	return b.Status == BoletoStatusVencido
}

// IsLiquidado returns true when the boleto no longer awaits payment
func (b *Boleto) IsLiquidado() bool {
	return b.Status == BoletoStatusPago || b.Status == BoletoStatusBaixado
}

// GetValorFormatado renders the face value as Brazilian currency
func (b *Boleto) GetValorFormatado() string {
	return moeda.Formatar(b.ValorNominal)
}

// BoletoSequencia holds the last issued nosso número sequence per bank config
type BoletoSequencia struct {
	BancoConfigID uint  `gorm:"primaryKey" json:"banco_config_id"`
	UltimoNumero  int64 `gorm:"not null;default:0" json:"ultimo_numero"`
}

// TableName specifies the table name for BoletoSequencia
func (BoletoSequencia) TableName() string {
	return "boleto_sequencias"
}

// BoletoAPILog records one call to the bank API for a boleto
type BoletoAPILog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BoletoID     uint      `gorm:"not null;index" json:"boleto_id"`
	Operacao     string    `gorm:"size:20;not null" json:"operacao"`
	RequestBody  string    `gorm:"type:text" json:"request_body"`
	ResponseBody string    `gorm:"type:text" json:"response_body"`
	HTTPStatus   int       `json:"http_status"`
	Sucesso      bool      `gorm:"index" json:"sucesso"`
	MensagemErro *string   `gorm:"type:text" json:"mensagem_erro"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	// Associations
	Boleto *Boleto `gorm:"foreignKey:BoletoID" json:"-"`
}

// TableName specifies the table name for BoletoAPILog
func (BoletoAPILog) TableName() string {
	return "boleto_api_logs"
}

// Operation constants
const (
	OperacaoRegistro  = "registro"
	OperacaoConsulta  = "consulta"
	OperacaoAlteracao = "alteracao"
	OperacaoBaixa     = "baixa"
	OperacaoProtesto  = "protesto"
)

// BoletoResponse is the JSON response format for boletos
type BoletoResponse struct {
	ID                 uint            `json:"id"`
	BancoConfigID      uint            `json:"banco_config_id"`
	LancamentoID       *uint           `json:"lancamento_id"`
	PagadorID          uint            `json:"pagador_id"`
	PagadorNome        string          `json:"pagador_nome,omitempty"`
	NossoNumero        string          `json:"nosso_numero"`
	SeuNumero          string          `json:"seu_numero"`
	ValorNominal       decimal.Decimal `json:"valor_nominal"`
	ValorFormatado     string          `json:"valor_formatado"`
	DataEmissao        time.Time       `json:"data_emissao"`
	DataVencimento     time.Time       `json:"data_vencimento"`
	DataRegistro       *time.Time      `json:"data_registro"`
	DataPagamento      *time.Time      `json:"data_pagamento"`
	CodigoBarras       *string         `json:"codigo_barras"`
	LinhaDigitavel     *string         `json:"linha_digitavel"`
	PixQRCode          *string         `json:"pix_qrcode"`
	Status             string          `json:"status"`
	TentativasRegistro int             `json:"tentativas_registro"`
	UltimoErro         *string         `json:"ultimo_erro"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ToResponse converts Boleto to BoletoResponse
func (b *Boleto) ToResponse() BoletoResponse {
	resp := BoletoResponse{
		ID:                 b.ID,
		BancoConfigID:      b.BancoConfigID,
		LancamentoID:       b.LancamentoID,
		PagadorID:          b.PagadorID,
		NossoNumero:        b.NossoNumero,
		SeuNumero:          b.SeuNumero,
		ValorNominal:       b.ValorNominal,
		ValorFormatado:     b.GetValorFormatado(),
		DataEmissao:        b.DataEmissao,
		DataVencimento:     b.DataVencimento,
		DataRegistro:       b.DataRegistro,
		DataPagamento:      b.DataPagamento,
		CodigoBarras:       b.CodigoBarras,
		LinhaDigitavel:     b.LinhaDigitavel,
		PixQRCode:          b.PixQRCode,
		Status:             b.Status,
		TentativasRegistro: b.TentativasRegistro,
		UltimoErro:         b.UltimoErro,
		CreatedAt:          b.CreatedAt,
	}

	if b.Pagador.ID != 0 {
		resp.PagadorNome = b.Pagador.Nome
	}

	return resp
}
