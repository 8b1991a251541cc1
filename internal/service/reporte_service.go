package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ELGOKU23/corte/internal/dto"
	"github.com/ELGOKU23/corte/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Compiled reports of finalized cortes are immutable, so a short cache
	// absorbs repeat reads (report modal + PDF download back to back).
	reporteCacheTTL    = 5 * time.Minute
	reporteCachePrefix = "reporte:"
)

type ReporteService interface {
	// Compilar derives the printable summary for a corte in any state.
	Compilar(ctx context.Context, corteID uuid.UUID) (*dto.ReporteCorte, error)
}

type reporteService struct {
	repo repository.CorteRepository
	rdb  *redis.Client
}

func NewReporteService(repo repository.CorteRepository, rdb *redis.Client) ReporteService {
	return &reporteService{repo: repo, rdb: rdb}
}

func (s *reporteService) Compilar(ctx context.Context, corteID uuid.UUID) (*dto.ReporteCorte, error) {
	cacheKey := reporteCachePrefix + corteID.String()

	// Cache only holds reports of finalized (immutable) cortes.
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var rep dto.ReporteCorte
			if jsonErr := json.Unmarshal(cached, &rep); jsonErr == nil {
				return &rep, nil
			}
		}
	}

	corte, err := s.repo.FindByID(ctx, corteID)
	if err != nil {
		return nil, errBusqueda(err)
	}

	rep := dto.CompilarReporte(corte)

	if s.rdb != nil && corte.Finalizado {
		if b, jsonErr := json.Marshal(rep); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), cacheKey, b, reporteCacheTTL).Err()
		}
	}
	return rep, nil
}

