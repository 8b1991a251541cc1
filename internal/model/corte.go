package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un corte.
// creado → iniciado → finalizado (terminal).
const (
	EstadoCreado     = "creado"
	EstadoIniciado   = "iniciado"
	EstadoFinalizado = "finalizado"
)

// Corte represents a production batch: cantidad × valor unitario, tracked
// from creation to completion. Total is computed exactly once at creation
// and is NOT recomputed when cantidad/valor are edited afterwards; the
// remaining balance is always derived from the frozen total.
type Corte struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cantidad    int             `gorm:"not null"`
	Valor       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Finalizado  bool            `gorm:"not null;default:false"`

	// FechaCreacion is server-assigned on insert.
	FechaCreacion     time.Time `gorm:"autoCreateTime;index"`
	FechaEmpezar      *time.Time
	FechaFinalizacion *time.Time

	Adelantos []Adelanto `gorm:"foreignKey:CorteID"`
}

// Adelanto is an advance payment applied against a corte's total.
// Adelantos are append-only: once created they are never edited or deleted.
type Adelanto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CorteID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Valor       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Fecha is the user-supplied calendar date (YYYY-MM-DD), not server time.
	Fecha       string `gorm:"type:varchar(10);not null"`
	Descripcion string
	// Foto is the public URL on the image host, empty when no photo was attached.
	Foto      string
	CreatedAt time.Time
}

// CalcularTotal returns cantidad × valor unitario.
func CalcularTotal(cantidad int, valor decimal.Decimal) decimal.Decimal {
	return valor.Mul(decimal.NewFromInt(int64(cantidad)))
}

// Estado derives the lifecycle state from the date fields.
func (c *Corte) Estado() string {
	switch {
	case c.Finalizado:
		return EstadoFinalizado
	case c.FechaEmpezar != nil:
		return EstadoIniciado
	default:
		return EstadoCreado
	}
}

// TotalAdelantos sums every advance payment on the corte.
func (c *Corte) TotalAdelantos() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range c.Adelantos {
		sum = sum.Add(a.Valor)
	}
	return sum
}

// MontoRestante is always recomputed from the frozen total and the current
// adelanto list — never trusted from stale stored state.
func (c *Corte) MontoRestante() decimal.Decimal {
	return c.Total.Sub(c.TotalAdelantos())
}
