package dto

import (
	"testing"
	"time"

	"github.com/ELGOKU23/corte/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuracionDias(t *testing.T) {
	inicio := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	// Exactly 3 days
	assert.Equal(t, 3, DuracionDias(inicio, inicio.Add(72*time.Hour)))
	// 2.6 days rounds to 3
	assert.Equal(t, 3, DuracionDias(inicio, inicio.Add(62*time.Hour)))
	// 2.4 days rounds to 2
	assert.Equal(t, 2, DuracionDias(inicio, inicio.Add(58*time.Hour)))
	// Less than half a day rounds to 0
	assert.Equal(t, 0, DuracionDias(inicio, inicio.Add(5*time.Hour)))
}

func TestCompilarReporte_SinFechas(t *testing.T) {
	corte := &model.Corte{
		ID:            uuid.New(),
		Descripcion:   "Lote camisas",
		Total:         decimal.NewFromInt(1500),
		FechaCreacion: time.Now(),
	}
	rep := CompilarReporte(corte)

	assert.Equal(t, FechaPlaceholder, rep.FechaEmpezar)
	assert.Equal(t, FechaPlaceholder, rep.FechaFinalizacion)
	assert.Nil(t, rep.DuracionDias)
	assert.NotEmpty(t, rep.GeneradoEn)
	assert.Empty(t, rep.Adelantos)
}

func TestCompilarReporte_Completo(t *testing.T) {
	inicio := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	fin := inicio.Add(72 * time.Hour)
	corte := &model.Corte{
		ID:                uuid.New(),
		Descripcion:       "Lote pantalones",
		Total:             decimal.NewFromInt(2000),
		Finalizado:        true,
		FechaCreacion:     inicio.Add(-24 * time.Hour),
		FechaEmpezar:      &inicio,
		FechaFinalizacion: &fin,
		Adelantos: []model.Adelanto{
			{ID: uuid.New(), Valor: decimal.NewFromInt(500), Fecha: "2025-03-02"},
			{ID: uuid.New(), Valor: decimal.NewFromInt(300), Fecha: "2025-03-03"},
		},
	}
	rep := CompilarReporte(corte)

	require.NotNil(t, rep.DuracionDias)
	assert.Equal(t, 3, *rep.DuracionDias)
	assert.Equal(t, inicio.Format(time.RFC3339), rep.FechaEmpezar)
	assert.Equal(t, fin.Format(time.RFC3339), rep.FechaFinalizacion)
	assert.True(t, rep.TotalAdelantos.Equal(decimal.NewFromInt(800)))
	assert.True(t, rep.MontoRestante.Equal(decimal.NewFromInt(1200)))
	assert.Len(t, rep.Adelantos, 2)
}

func TestFromCorte_Normalizacion(t *testing.T) {
	creacion := time.Date(2025, 5, 10, 14, 30, 0, 0, time.FixedZone("PET", -5*3600))
	corte := &model.Corte{
		ID:            uuid.New(),
		Cantidad:      10,
		Valor:         decimal.NewFromInt(150),
		Descripcion:   "Lote polos",
		Total:         decimal.NewFromInt(1500),
		FechaCreacion: creacion,
	}
	resp := FromCorte(corte)

	// Timestamps are normalized to RFC3339 UTC strings at this boundary.
	parsed, err := time.Parse(time.RFC3339, resp.FechaCreacion)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(creacion))
	assert.Nil(t, resp.FechaEmpezar)
	assert.Nil(t, resp.FechaFinalizacion)
	assert.Equal(t, model.EstadoCreado, resp.Estado)
	assert.NotNil(t, resp.Adelantos, "adelantos serializes as [] not null")
}
