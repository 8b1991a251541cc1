package dto

import (
	"math"
	"time"

	"github.com/ELGOKU23/corte/internal/model"

	"github.com/shopspring/decimal"
)

// FechaPlaceholder marks an absent date in compiled reports.
const FechaPlaceholder = "-"

// ReporteCorte is the compiled, format-agnostic summary of a corte.
// Renderers (JSON response, PDF) lay it out; the compiler never formats.
// Absent dates carry the "-" placeholder; DuracionDias is nil when either
// endpoint is missing.
type ReporteCorte struct {
	CorteID           string             `json:"corte_id"`
	Descripcion       string             `json:"descripcion"`
	FechaCreacion     string             `json:"fecha_creacion"`
	FechaEmpezar      string             `json:"fecha_empezar"`
	FechaFinalizacion string             `json:"fecha_finalizacion"`
	DuracionDias      *int               `json:"duracion_dias,omitempty"`
	MontoTotal        decimal.Decimal    `json:"monto_total"`
	TotalAdelantos    decimal.Decimal    `json:"total_adelantos"`
	MontoRestante     decimal.Decimal    `json:"monto_restante"`
	Adelantos         []AdelantoResponse `json:"adelantos"`
	GeneradoEn        string             `json:"generado_en"`
}

// CompilarReporte is the pure compiler: corte in, structured report out.
// It works for a corte in any state; absent dates become the placeholder
// and the duration is only present when both endpoints exist.
func CompilarReporte(corte *model.Corte) *ReporteCorte {
	rep := &ReporteCorte{
		CorteID:           corte.ID.String(),
		Descripcion:       corte.Descripcion,
		FechaCreacion:     corte.FechaCreacion.UTC().Format(time.RFC3339),
		FechaEmpezar:      FechaPlaceholder,
		FechaFinalizacion: FechaPlaceholder,
		MontoTotal:        corte.Total,
		TotalAdelantos:    corte.TotalAdelantos(),
		MontoRestante:     corte.MontoRestante(),
		GeneradoEn:        time.Now().UTC().Format(time.RFC3339),
	}

	if corte.FechaEmpezar != nil {
		rep.FechaEmpezar = corte.FechaEmpezar.UTC().Format(time.RFC3339)
	}
	if corte.FechaFinalizacion != nil {
		rep.FechaFinalizacion = corte.FechaFinalizacion.UTC().Format(time.RFC3339)
	}
	if corte.FechaEmpezar != nil && corte.FechaFinalizacion != nil {
		dias := DuracionDias(*corte.FechaEmpezar, *corte.FechaFinalizacion)
		rep.DuracionDias = &dias
	}

	rep.Adelantos = make([]AdelantoResponse, 0, len(corte.Adelantos))
	for _, a := range corte.Adelantos {
		rep.Adelantos = append(rep.Adelantos, AdelantoResponse{
			ID:          a.ID.String(),
			Valor:       a.Valor,
			Fecha:       a.Fecha,
			Descripcion: a.Descripcion,
			Foto:        a.Foto,
		})
	}
	return rep
}

// DuracionDias is the whole-day duration between start and finalization:
// round((fin − inicio) / 86400000 ms), nearest-integer semantics.
func DuracionDias(inicio, fin time.Time) int {
	millis := float64(fin.Sub(inicio).Milliseconds())
	return int(math.Round(millis / 86400000.0))
}
