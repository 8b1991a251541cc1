package repository

import (
	"context"

	"github.com/ELGOKU23/corte/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CorteRepository interface {
	Create(ctx context.Context, c *model.Corte) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Corte, error)
	// ListOrdenado returns the complete collection ordered by fecha_creacion
	// descending — the snapshot shape the feed delivers.
	ListOrdenado(ctx context.Context) ([]model.Corte, error)
	// UpdateCampos patches individual fields, mirroring a field-level
	// document update (never a whole-record overwrite).
	UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	// AppendAdelanto inserts one advance as its own row. Two concurrent
	// appenders on the same corte both land — there is no read-modify-write
	// of a list, so no lost update.
	AppendAdelanto(ctx context.Context, a *model.Adelanto) error
}

type corteRepo struct{ db *gorm.DB }

func NewCorteRepository(db *gorm.DB) CorteRepository { return &corteRepo{db: db} }

func (r *corteRepo) Create(ctx context.Context, c *model.Corte) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *corteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Corte, error) {
	var c model.Corte
	err := r.db.WithContext(ctx).
		Preload("Adelantos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *corteRepo) ListOrdenado(ctx context.Context) ([]model.Corte, error) {
	var cortes []model.Corte
	err := r.db.WithContext(ctx).
		Preload("Adelantos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("fecha_creacion DESC").
		Find(&cortes).Error
	return cortes, err
}

func (r *corteRepo) UpdateCampos(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Corte{}).Where("id = ?", id).Updates(campos).Error
}

func (r *corteRepo) AppendAdelanto(ctx context.Context, a *model.Adelanto) error {
	return r.db.WithContext(ctx).Create(a).Error
}
