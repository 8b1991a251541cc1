package handler

import (
	"net/http"
	"os"

	"github.com/ELGOKU23/corte/internal/infra"
	"github.com/ELGOKU23/corte/internal/service"

	"github.com/gin-gonic/gin"
)

type ReporteHandler struct {
	svc            service.ReporteService
	pdfStoragePath string
}

func NewReporteHandler(svc service.ReporteService, pdfStoragePath string) *ReporteHandler {
	return &ReporteHandler{svc: svc, pdfStoragePath: pdfStoragePath}
}

// Obtener godoc
// @Summary Obtiene el reporte compilado de un corte
// @Tags reportes
// @Produce json
// @Param id path string true "ID del corte"
// @Success 200 {object} dto.ReporteCorte
// @Failure 404 {object} apierror.APIError
// @Router /v1/cortes/{id}/reporte [get]
func (h *ReporteHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rep, err := h.svc.Compilar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// DescargarPDF godoc
// @Summary Descarga el reporte de un corte en PDF
// @Tags reportes
// @Produce application/pdf
// @Param id path string true "ID del corte"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/cortes/{id}/reporte/pdf [get]
func (h *ReporteHandler) DescargarPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// The async worker usually has the PDF ready by the time this is called;
	// when it isn't (corte not finalized yet, worker behind) render it here.
	pdfPath := infra.ReportePDFPath(h.pdfStoragePath, id.String())
	if _, err := os.Stat(pdfPath); err != nil {
		rep, err := h.svc.Compilar(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		if pdfPath, err = infra.GenerarReportePDF(rep, h.pdfStoragePath); err != nil {
			writeError(c, err)
			return
		}
	}

	c.FileAttachment(pdfPath, "reporte_"+id.String()+".pdf")
}
