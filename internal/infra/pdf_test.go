package infra

import (
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ELGOKU23/corte/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncar(t *testing.T) {
	assert.Equal(t, "corto", truncar("corto", 48))

	// Accented text cut exactly where a multibyte rune sits must stay valid.
	largo := strings.Repeat("confección de algodón peinado ", 4)
	out := truncar(largo, 48)
	assert.True(t, utf8.ValidString(out), "truncation split a rune: %q", out)
	assert.Equal(t, 48, utf8.RuneCountInString(out))
	assert.True(t, strings.HasSuffix(out, "…"))

	// Boundary: exactly max runes passes through untouched.
	exacto := strings.Repeat("á", 48)
	assert.Equal(t, exacto, truncar(exacto, 48))
}

func TestGenerarReportePDF(t *testing.T) {
	inicio := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	fin := inicio.Add(72 * time.Hour)
	dias := 3
	rep := &dto.ReporteCorte{
		CorteID:           uuid.NewString(),
		Descripcion:       "Lote de confección — descripción larguísima con acentos " + strings.Repeat("ñ", 60),
		FechaCreacion:     inicio.Format(time.RFC3339),
		FechaEmpezar:      inicio.Format(time.RFC3339),
		FechaFinalizacion: fin.Format(time.RFC3339),
		DuracionDias:      &dias,
		MontoTotal:        decimal.NewFromInt(1500),
		TotalAdelantos:    decimal.NewFromInt(500),
		MontoRestante:     decimal.NewFromInt(1000),
		Adelantos: []dto.AdelantoResponse{
			{ID: uuid.NewString(), Valor: decimal.NewFromInt(500), Fecha: "2025-03-02",
				Descripcion: strings.Repeat("pedido señalización número ", 5)},
		},
		GeneradoEn: time.Now().UTC().Format(time.RFC3339),
	}

	dir := t.TempDir()
	path, err := GenerarReportePDF(rep, dir)
	require.NoError(t, err)
	assert.Equal(t, ReportePDFPath(dir, rep.CorteID), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
