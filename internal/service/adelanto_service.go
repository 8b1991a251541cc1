package service

import (
	"context"
	"strings"
	"time"

	"github.com/ELGOKU23/corte/internal/apierror"
	"github.com/ELGOKU23/corte/internal/dto"
	"github.com/ELGOKU23/corte/internal/model"
	"github.com/ELGOKU23/corte/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// updateTimeout bounds the append step, separately from the photo upload
// bound (which lives inside the image store client).
const updateTimeout = 15 * time.Second

// ImageStore uploads a photo and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

type AdelantoService interface {
	// Agregar validates, optionally uploads the photo, and appends the new
	// adelanto atomically to the parent corte.
	Agregar(ctx context.Context, corteID uuid.UUID, req dto.AgregarAdelantoRequest) (*dto.CorteResponse, error)
}

type adelantoService struct {
	repo     repository.CorteRepository
	images   ImageStore
	notifier Notifier
}

func NewAdelantoService(repo repository.CorteRepository, images ImageStore, notifier Notifier) AdelantoService {
	return &adelantoService{repo: repo, images: images, notifier: notifier}
}

// Agregar implements the append pipeline:
//  1. field validation — fails before any network call
//  2. optional photo upload (bounded, classified as upload_timeout)
//  3. build adelanto with a fresh uuid
//  4. atomic append (bounded, classified as update_timeout)
//  5. publish change
//
// Known gap: when the upload succeeds but the append fails, the uploaded
// photo is orphaned on the image host (not retried, not cleaned up).
func (s *adelantoService) Agregar(ctx context.Context, corteID uuid.UUID, req dto.AgregarAdelantoRequest) (*dto.CorteResponse, error) {
	// 1. Validate before touching the network.
	fields := map[string]string{}
	if !req.Valor.IsPositive() {
		fields["valor"] = "debe ser mayor a 0"
	}
	if strings.TrimSpace(req.Fecha) == "" {
		fields["fecha"] = "es requerida"
	} else if _, err := time.Parse("2006-01-02", req.Fecha); err != nil {
		fields["fecha"] = "debe ser una fecha válida (YYYY-MM-DD)"
	}
	if len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	corte, err := s.repo.FindByID(ctx, corteID)
	if err != nil {
		return nil, errBusqueda(err)
	}
	if corte.Finalizado {
		return nil, apierror.New(apierror.KindValidation, "No se pueden añadir adelantos a un corte finalizado")
	}

	// 2. Photo upload. A timeout here aborts the whole operation: no
	// adelanto is appended without its photo if one was requested.
	fotoURL := ""
	if len(req.Foto) > 0 {
		nombre := req.FotoNombre
		if nombre == "" {
			nombre = "adelanto_" + corteID.String()
		}
		fotoURL, err = s.images.Upload(ctx, nombre, req.Foto)
		if err != nil {
			return nil, apierror.Classify(err, apierror.KindUploadTimeout)
		}
	}

	// 3. Locally generated id, unique within the parent's list.
	adelanto := &model.Adelanto{
		ID:          uuid.New(),
		CorteID:     corteID,
		Valor:       req.Valor,
		Fecha:       req.Fecha,
		Descripcion: strings.TrimSpace(req.Descripcion),
		Foto:        fotoURL,
	}

	// 4. Atomic append with its own bound.
	appendCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()
	if err := s.repo.AppendAdelanto(appendCtx, adelanto); err != nil {
		if fotoURL != "" {
			log.Warn().Str("foto", fotoURL).Str("corte_id", corteID.String()).
				Msg("adelanto no añadido, foto huérfana en el host de imágenes")
		}
		return nil, apierror.Classify(err, apierror.KindUpdateTimeout)
	}

	// 5. Signal completion.
	if s.notifier != nil {
		if err := s.notifier.Publish(ctx); err != nil {
			log.Warn().Err(err).Msg("no se pudo publicar el cambio")
		}
	}

	corte.Adelantos = append(corte.Adelantos, *adelanto)
	return dto.FromCorte(corte), nil
}
