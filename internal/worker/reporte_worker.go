package worker

// reporte_worker.go
// Processes report-generation jobs from QueueReporte: compiles the report
// of a freshly finalized corte, renders the PDF, and optionally enqueues an
// email job with the PDF attached. Retries in-process (max 3 attempts) and
// moves exhausted jobs to the DLQ.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ELGOKU23/corte/internal/dto"
	"github.com/ELGOKU23/corte/internal/infra"
	"github.com/ELGOKU23/corte/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxReporteAttempts = 3

// ReporteJobPayload is the job envelope sent to QueueReporte.
type ReporteJobPayload struct {
	CorteID string `json:"corte_id"`
}

// ReporteWorker renders report PDFs for finalized cortes.
type ReporteWorker struct {
	repo           repository.CorteRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pdfStoragePath string
	reporteEmail   string
}

func NewReporteWorker(repo repository.CorteRepository, dispatcher *Dispatcher, rdb *redis.Client, pdfStoragePath, reporteEmail string) *ReporteWorker {
	return &ReporteWorker{
		repo:           repo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		reporteEmail:   reporteEmail,
	}
}

// Process compiles and renders the report, retrying transient failures.
func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return
	}
	corteID, err := uuid.Parse(payload.CorteID)
	if err != nil {
		log.Error().Str("corte_id", payload.CorteID).Msg("reporte_worker: invalid corte_id")
		return
	}

	var pdfPath string
	var lastErr error
	for attempt := 1; attempt <= maxReporteAttempts; attempt++ {
		pdfPath, lastErr = w.generar(ctx, corteID)
		if lastErr == nil {
			break
		}
		log.Warn().Err(lastErr).Int("attempt", attempt).Str("corte_id", payload.CorteID).
			Msg("reporte_worker: generation failed")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	if lastErr != nil {
		SendToDLQ(ctx, w.rdb, QueueReporte, "reporte", raw, lastErr.Error(), maxReporteAttempts)
		return
	}

	log.Info().Str("corte_id", payload.CorteID).Str("pdf", pdfPath).
		Msg("reporte_worker: PDF generated")

	if w.reporteEmail != "" && w.dispatcher != nil {
		emailPayload := EmailJobPayload{
			ToEmail: w.reporteEmail,
			Subject: "Reporte de corte finalizado",
			Body:    "Se adjunta el reporte del corte finalizado.",
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailPayload); err != nil {
			log.Error().Err(err).Msg("reporte_worker: failed to enqueue email job")
		}
	}
}

func (w *ReporteWorker) generar(ctx context.Context, corteID uuid.UUID) (string, error) {
	corte, err := w.repo.FindByID(ctx, corteID)
	if err != nil {
		return "", err
	}
	rep := dto.CompilarReporte(corte)
	return infra.GenerarReportePDF(rep, w.pdfStoragePath)
}
