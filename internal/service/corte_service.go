package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ELGOKU23/corte/internal/apierror"
	"github.com/ELGOKU23/corte/internal/dto"
	"github.com/ELGOKU23/corte/internal/model"
	"github.com/ELGOKU23/corte/internal/repository"
	"github.com/ELGOKU23/corte/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notifier publishes a change notification after every successful mutation
// so feed sessions reload their snapshot.
type Notifier interface {
	Publish(ctx context.Context) error
}

type CorteService interface {
	Crear(ctx context.Context, req dto.CrearCorteRequest) (*dto.CorteResponse, error)
	Listar(ctx context.Context) ([]dto.CorteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CorteResponse, error)
	Editar(ctx context.Context, id uuid.UUID, req dto.EditarCorteRequest) (*dto.CorteResponse, error)
	Iniciar(ctx context.Context, id uuid.UUID) (*dto.CorteResponse, error)
	Finalizar(ctx context.Context, id uuid.UUID) (*dto.CorteResponse, error)
}

type corteService struct {
	repo       repository.CorteRepository
	notifier   Notifier
	dispatcher *worker.Dispatcher
}

func NewCorteService(repo repository.CorteRepository, notifier Notifier, dispatcher *worker.Dispatcher) CorteService {
	return &corteService{repo: repo, notifier: notifier, dispatcher: dispatcher}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Total is computed here, exactly once. Edits never recompute it.

func (s *corteService) Crear(ctx context.Context, req dto.CrearCorteRequest) (*dto.CorteResponse, error) {
	if fields := validarCorte(req.Cantidad, req.Valor, req.Descripcion); len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	corte := &model.Corte{
		Cantidad:    req.Cantidad,
		Valor:       req.Valor,
		Descripcion: strings.TrimSpace(req.Descripcion),
		Total:       model.CalcularTotal(req.Cantidad, req.Valor),
		Finalizado:  false,
		Adelantos:   []model.Adelanto{},
	}
	if err := s.repo.Create(ctx, corte); err != nil {
		return nil, apierror.Classify(err, apierror.KindUpdateTimeout)
	}

	s.notificar(ctx)
	return dto.FromCorte(corte), nil
}

// ── Listar / Obtener ──────────────────────────────────────────────────────────

func (s *corteService) Listar(ctx context.Context) ([]dto.CorteResponse, error) {
	cortes, err := s.repo.ListOrdenado(ctx)
	if err != nil {
		return nil, apierror.Classify(err, apierror.KindUpdateTimeout)
	}
	out := make([]dto.CorteResponse, 0, len(cortes))
	for i := range cortes {
		out = append(out, *dto.FromCorte(&cortes[i]))
	}
	return out, nil
}

func (s *corteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CorteResponse, error) {
	corte, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errBusqueda(err)
	}
	return dto.FromCorte(corte), nil
}

// ── Editar ────────────────────────────────────────────────────────────────────
// Permitted in any non-terminal state. The frozen total stays untouched.

func (s *corteService) Editar(ctx context.Context, id uuid.UUID, req dto.EditarCorteRequest) (*dto.CorteResponse, error) {
	if fields := validarCorte(req.Cantidad, req.Valor, req.Descripcion); len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	corte, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errBusqueda(err)
	}
	if corte.Finalizado {
		return nil, apierror.New(apierror.KindValidation, "Un corte finalizado no puede editarse")
	}

	if err := s.repo.UpdateCampos(ctx, id, map[string]interface{}{
		"cantidad":    req.Cantidad,
		"valor":       req.Valor,
		"descripcion": strings.TrimSpace(req.Descripcion),
	}); err != nil {
		return nil, apierror.Classify(err, apierror.KindUpdateTimeout)
	}

	s.notificar(ctx)
	return s.Obtener(ctx, id)
}

// ── Iniciar ───────────────────────────────────────────────────────────────────
// Legal from creado. Already-started cortes are a no-op: the original start
// time is never silently overwritten.

func (s *corteService) Iniciar(ctx context.Context, id uuid.UUID) (*dto.CorteResponse, error) {
	corte, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errBusqueda(err)
	}
	if corte.Finalizado {
		return nil, apierror.New(apierror.KindValidation, "Un corte finalizado no puede iniciarse")
	}
	if corte.FechaEmpezar != nil {
		return dto.FromCorte(corte), nil
	}

	ahora := time.Now().UTC()
	if err := s.repo.UpdateCampos(ctx, id, map[string]interface{}{
		"fecha_empezar": ahora,
	}); err != nil {
		return nil, apierror.Classify(err, apierror.KindUpdateTimeout)
	}

	s.notificar(ctx)
	corte.FechaEmpezar = &ahora
	return dto.FromCorte(corte), nil
}

// ── Finalizar ─────────────────────────────────────────────────────────────────
// Legal only from iniciado; terminal and exactly-once. On success a report
// job is enqueued so the PDF is ready by the time the caller asks for it.

func (s *corteService) Finalizar(ctx context.Context, id uuid.UUID) (*dto.CorteResponse, error) {
	corte, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errBusqueda(err)
	}
	if corte.Finalizado {
		return nil, apierror.New(apierror.KindValidation, "El corte ya está finalizado")
	}
	if corte.FechaEmpezar == nil {
		return nil, apierror.New(apierror.KindValidation, "El corte debe iniciarse antes de finalizar")
	}

	ahora := time.Now().UTC()
	if err := s.repo.UpdateCampos(ctx, id, map[string]interface{}{
		"finalizado":         true,
		"fecha_finalizacion": ahora,
	}); err != nil {
		return nil, apierror.Classify(err, apierror.KindUpdateTimeout)
	}

	s.notificar(ctx)

	// Async report generation — best-effort, fire & forget.
	if s.dispatcher != nil {
		payload := map[string]interface{}{"corte_id": id.String()}
		if err := s.dispatcher.EnqueueReporte(ctx, payload); err != nil {
			log.Warn().Err(err).Str("corte_id", id.String()).Msg("no se pudo encolar el reporte")
		}
	}

	corte.Finalizado = true
	corte.FechaFinalizacion = &ahora
	return dto.FromCorte(corte), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// errBusqueda distinguishes a missing corte from an unreachable store: only a
// genuine record-not-found becomes 404, everything else goes through the
// classifier (connection refused must surface as unavailable, not not-found).
func errBusqueda(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.New(apierror.KindNotFound, "Corte no encontrado")
	}
	return apierror.Classify(err, apierror.KindUpdateTimeout)
}

func validarCorte(cantidad int, valor decimal.Decimal, descripcion string) map[string]string {
	fields := map[string]string{}
	if cantidad <= 0 {
		fields["cantidad"] = "debe ser mayor a 0"
	}
	if !valor.IsPositive() {
		fields["valor"] = "debe ser mayor a 0"
	}
	if strings.TrimSpace(descripcion) == "" {
		fields["descripcion"] = "es requerida"
	}
	return fields
}

func (s *corteService) notificar(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo publicar el cambio")
	}
}
