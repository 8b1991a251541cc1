package dto

import (
	"time"

	"github.com/ELGOKU23/corte/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCorteRequest struct {
	Cantidad    int             `json:"cantidad"    validate:"required,gt=0"`
	Valor       decimal.Decimal `json:"valor"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=1"`
}

// EditarCorteRequest mutates cantidad/valor/descripcion while the corte is
// not finalized. The frozen total is NOT recomputed from the new values.
type EditarCorteRequest struct {
	Cantidad    int             `json:"cantidad"    validate:"required,gt=0"`
	Valor       decimal.Decimal `json:"valor"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AdelantoResponse struct {
	ID          string          `json:"id"`
	Valor       decimal.Decimal `json:"valor"`
	Fecha       string          `json:"fecha"`
	Descripcion string          `json:"descripcion"`
	Foto        string          `json:"foto"`
}

// CorteResponse is the normalized projection handed to every caller.
// All store timestamps are rendered as RFC3339 strings here — no component
// downstream of this boundary ever sees the store's native time type.
type CorteResponse struct {
	ID                string             `json:"id"`
	Cantidad          int                `json:"cantidad"`
	Valor             decimal.Decimal    `json:"valor"`
	Descripcion       string             `json:"descripcion"`
	Total             decimal.Decimal    `json:"total"`
	TotalAdelantos    decimal.Decimal    `json:"total_adelantos"`
	MontoRestante     decimal.Decimal    `json:"monto_restante"`
	Adelantos         []AdelantoResponse `json:"adelantos"`
	Estado            string             `json:"estado"`
	Finalizado        bool               `json:"finalizado"`
	FechaCreacion     string             `json:"fecha_creacion"`
	FechaEmpezar      *string            `json:"fecha_empezar,omitempty"`
	FechaFinalizacion *string            `json:"fecha_finalizacion,omitempty"`
}

// FromCorte normalizes a stored corte into the caller-facing projection,
// recomputing the derived balance fields.
func FromCorte(c *model.Corte) *CorteResponse {
	adelantos := make([]AdelantoResponse, 0, len(c.Adelantos))
	for _, a := range c.Adelantos {
		adelantos = append(adelantos, AdelantoResponse{
			ID:          a.ID.String(),
			Valor:       a.Valor,
			Fecha:       a.Fecha,
			Descripcion: a.Descripcion,
			Foto:        a.Foto,
		})
	}
	resp := &CorteResponse{
		ID:             c.ID.String(),
		Cantidad:       c.Cantidad,
		Valor:          c.Valor,
		Descripcion:    c.Descripcion,
		Total:          c.Total,
		TotalAdelantos: c.TotalAdelantos(),
		MontoRestante:  c.MontoRestante(),
		Adelantos:      adelantos,
		Estado:         c.Estado(),
		Finalizado:     c.Finalizado,
		FechaCreacion:  c.FechaCreacion.UTC().Format(time.RFC3339),
	}
	if c.FechaEmpezar != nil {
		s := c.FechaEmpezar.UTC().Format(time.RFC3339)
		resp.FechaEmpezar = &s
	}
	if c.FechaFinalizacion != nil {
		s := c.FechaFinalizacion.UTC().Format(time.RFC3339)
		resp.FechaFinalizacion = &s
	}
	return resp
}
