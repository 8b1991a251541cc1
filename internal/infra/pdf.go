package infra

// pdf.go — Report PDF generation using go-pdf/fpdf.
// Lays out the compiled report of a corte:
//   - Title and description
//   - Date block (creación, empezar, finalización, duración)
//   - Amount block (total, adelantos, restante)
//   - Advance table (amount, description, date)
//
// The output file is saved to storagePath/reporte_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ELGOKU23/corte/internal/dto"

	"github.com/go-pdf/fpdf"
)

// ReportePDFPath returns the on-disk location of a corte's report PDF.
func ReportePDFPath(storagePath, corteID string) string {
	return filepath.Join(storagePath, fmt.Sprintf("reporte_%s.pdf", corteID))
}

// GenerarReportePDF renders a compiled report to disk and returns the
// absolute path of the generated file.
func GenerarReportePDF(rep *dto.ReporteCorte, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := ReportePDFPath(storagePath, rep.CorteID)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Reporte de Corte", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, rep.Descripcion, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)

	// ── Dates ────────────────────────────────────────────────────────────────
	duracion := "-"
	if rep.DuracionDias != nil {
		duracion = fmt.Sprintf("%d días", *rep.DuracionDias)
	}
	lineas := []struct{ label, value string }{
		{"Fecha de entrega:", rep.FechaCreacion},
		{"Fecha de empezar:", rep.FechaEmpezar},
		{"Fecha de finalización:", rep.FechaFinalizacion},
		{"Duración (inicio a fin):", duracion},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, l := range lineas {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW*0.4, 6, l.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW*0.6, 6, l.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Amounts ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW*0.4, 7, "Monto total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.6, 7, "S/ "+rep.MontoTotal.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 7, "Total adelantos:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.6, 7, "S/ "+rep.TotalAdelantos.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 7, "Monto restante:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.6, 7, "S/ "+rep.MontoRestante.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Advances table ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Adelantos", "", 1, "L", false, 0, "")

	col1 := contentW * 0.22 // amount
	col2 := contentW * 0.50 // description
	col3 := contentW * 0.28 // date

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Monto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Descripción", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Fecha", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if len(rep.Adelantos) == 0 {
		pdf.CellFormat(contentW, 6, "Sin adelantos registrados", "", 1, "L", false, 0, "")
	}
	for _, a := range rep.Adelantos {
		descripcion := a.Descripcion
		if descripcion == "" {
			descripcion = "Sin descripción"
		}
		descripcion = truncar(descripcion, 48)
		pdf.CellFormat(col1, 6, "S/ "+a.Valor.StringFixed(2), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, descripcion, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, a.Fecha, "", 1, "L", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Generado: "+rep.GeneradoEn, "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// truncar shortens a cell value to max characters, counting runes so accented
// text is never split mid-sequence.
func truncar(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
