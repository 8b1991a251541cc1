package service_test

// Tests for the corte lifecycle: creation with a frozen total, edits that
// never recompute it, idempotent start, and exactly-once finalization.

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ELGOKU23/corte/internal/apierror"
	"github.com/ELGOKU23/corte/internal/dto"
	"github.com/ELGOKU23/corte/internal/model"
	"github.com/ELGOKU23/corte/internal/repository"
	"github.com/ELGOKU23/corte/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory CorteRepository stub ───────────────────────────────────────────

type stubCorteRepo struct {
	mu      sync.Mutex
	cortes  map[uuid.UUID]*model.Corte
	updates int

	createErr error
	findErr   error
	appendErr error
}

func newStubCorteRepo() *stubCorteRepo {
	return &stubCorteRepo{cortes: make(map[uuid.UUID]*model.Corte)}
}

func (r *stubCorteRepo) Create(_ context.Context, c *model.Corte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cloned := *c
	r.cortes[c.ID] = &cloned
	return nil
}

func (r *stubCorteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Corte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.cortes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	cloned.Adelantos = append([]model.Adelanto(nil), c.Adelantos...)
	return &cloned, nil
}

func (r *stubCorteRepo) ListOrdenado(_ context.Context) ([]model.Corte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Corte, 0, len(r.cortes))
	for _, c := range r.cortes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCorteRepo) UpdateCampos(_ context.Context, id uuid.UUID, campos map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cortes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.updates++
	for k, v := range campos {
		switch k {
		case "cantidad":
			c.Cantidad = v.(int)
		case "valor":
			c.Valor = v.(decimal.Decimal)
		case "descripcion":
			c.Descripcion = v.(string)
		case "finalizado":
			c.Finalizado = v.(bool)
		case "fecha_empezar":
			tv := v.(time.Time)
			c.FechaEmpezar = &tv
		case "fecha_finalizacion":
			tv := v.(time.Time)
			c.FechaFinalizacion = &tv
		}
	}
	return nil
}

func (r *stubCorteRepo) AppendAdelanto(ctx context.Context, a *model.Adelanto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c, ok := r.cortes[a.CorteID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Adelantos = append(c.Adelantos, *a)
	return nil
}

var _ repository.CorteRepository = (*stubCorteRepo)(nil)

// ── Notifier stub ────────────────────────────────────────────────────────────

type stubNotifier struct {
	mu       sync.Mutex
	publicas int
}

func (n *stubNotifier) Publish(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.publicas++
	return nil
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.publicas
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCrear_TotalCalculadoUnaVez(t *testing.T) {
	repo := newStubCorteRepo()
	notifier := &stubNotifier{}
	svc := service.NewCorteService(repo, notifier, nil)

	resp, err := svc.Crear(context.Background(), dto.CrearCorteRequest{
		Cantidad:    10,
		Valor:       decimal.NewFromInt(150),
		Descripcion: "Lote camisas",
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, model.EstadoCreado, resp.Estado)
	assert.True(t, resp.MontoRestante.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 1, notifier.count())
}

func TestCrear_Invalido(t *testing.T) {
	repo := newStubCorteRepo()
	svc := service.NewCorteService(repo, &stubNotifier{}, nil)

	_, err := svc.Crear(context.Background(), dto.CrearCorteRequest{
		Cantidad:    0,
		Valor:       decimal.Zero,
		Descripcion: "  ",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "cantidad")
	assert.Contains(t, apiErr.Fields, "valor")
	assert.Contains(t, apiErr.Fields, "descripcion")
	assert.Empty(t, repo.cortes, "nothing persisted on validation failure")
}

func TestEditar_NoRecalculaTotal(t *testing.T) {
	repo := newStubCorteRepo()
	notifier := &stubNotifier{}
	svc := service.NewCorteService(repo, notifier, nil)

	creado, err := svc.Crear(context.Background(), dto.CrearCorteRequest{
		Cantidad: 10, Valor: decimal.NewFromInt(150), Descripcion: "Lote camisas",
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	editado, err := svc.Editar(context.Background(), id, dto.EditarCorteRequest{
		Cantidad: 20, Valor: decimal.NewFromInt(200), Descripcion: "Lote camisas XL",
	})
	require.NoError(t, err)

	assert.Equal(t, 20, editado.Cantidad)
	assert.True(t, editado.Valor.Equal(decimal.NewFromInt(200)))
	// The frozen total survives the edit: still 10 x 150, not 20 x 200.
	assert.True(t, editado.Total.Equal(decimal.NewFromInt(1500)),
		"total must stay frozen, got %s", editado.Total)
}

func TestEditar_CorteFinalizado(t *testing.T) {
	repo := newStubCorteRepo()
	svc := service.NewCorteService(repo, &stubNotifier{}, nil)

	id := crearFinalizado(t, svc, repo)
	_, err := svc.Editar(context.Background(), id, dto.EditarCorteRequest{
		Cantidad: 5, Valor: decimal.NewFromInt(10), Descripcion: "x",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestIniciar_Idempotente(t *testing.T) {
	repo := newStubCorteRepo()
	svc := service.NewCorteService(repo, &stubNotifier{}, nil)

	creado, err := svc.Crear(context.Background(), dto.CrearCorteRequest{
		Cantidad: 1, Valor: decimal.NewFromInt(100), Descripcion: "Lote",
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	primero, err := svc.Iniciar(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, primero.FechaEmpezar)

	updatesDespues := repo.updates

	segundo, err := svc.Iniciar(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, segundo.FechaEmpezar)
	// The original start time is never overwritten, and no write happens.
	assert.Equal(t, *primero.FechaEmpezar, *segundo.FechaEmpezar)
	assert.Equal(t, updatesDespues, repo.updates)
}

func TestFinalizar_RequiereInicio(t *testing.T) {
	repo := newStubCorteRepo()
	svc := service.NewCorteService(repo, &stubNotifier{}, nil)

	creado, err := svc.Crear(context.Background(), dto.CrearCorteRequest{
		Cantidad: 1, Valor: decimal.NewFromInt(100), Descripcion: "Lote",
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	_, err = svc.Finalizar(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestFinalizar_ExactamenteUnaVez(t *testing.T) {
	repo := newStubCorteRepo()
	svc := service.NewCorteService(repo, &stubNotifier{}, nil)

	id := crearFinalizado(t, svc, repo)
	_, err := svc.Finalizar(context.Background(), id)
	require.Error(t, err, "second finalization must be rejected")
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestObtener_NoEncontrado(t *testing.T) {
	svc := service.NewCorteService(newStubCorteRepo(), &stubNotifier{}, nil)
	_, err := svc.Obtener(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestBusqueda_AlmacenCaido(t *testing.T) {
	// A lookup that fails because postgres is unreachable must classify as
	// unavailable, never as not-found.
	repo := newStubCorteRepo()
	svc := service.NewCorteService(repo, &stubNotifier{}, nil)

	creado, err := svc.Crear(context.Background(), dto.CrearCorteRequest{
		Cantidad: 1, Valor: decimal.NewFromInt(100), Descripcion: "Lote",
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)
	_, err = svc.Iniciar(context.Background(), id)
	require.NoError(t, err)

	repo.findErr = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

	for _, op := range []func() (*dto.CorteResponse, error){
		func() (*dto.CorteResponse, error) { return svc.Obtener(context.Background(), id) },
		func() (*dto.CorteResponse, error) {
			return svc.Editar(context.Background(), id, dto.EditarCorteRequest{
				Cantidad: 2, Valor: decimal.NewFromInt(50), Descripcion: "Lote",
			})
		},
		func() (*dto.CorteResponse, error) { return svc.Iniciar(context.Background(), id) },
		func() (*dto.CorteResponse, error) { return svc.Finalizar(context.Background(), id) },
	} {
		_, err := op()
		require.Error(t, err)
		assert.Equal(t, apierror.KindUnavailable, apierror.KindOf(err))
	}
}

// crearFinalizado walks a fresh corte through the full lifecycle.
func crearFinalizado(t *testing.T, svc service.CorteService, repo *stubCorteRepo) uuid.UUID {
	t.Helper()
	creado, err := svc.Crear(context.Background(), dto.CrearCorteRequest{
		Cantidad: 2, Valor: decimal.NewFromInt(50), Descripcion: "Lote",
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)
	_, err = svc.Iniciar(context.Background(), id)
	require.NoError(t, err)
	fin, err := svc.Finalizar(context.Background(), id)
	require.NoError(t, err)
	require.True(t, fin.Finalizado)
	require.Equal(t, model.EstadoFinalizado, fin.Estado)
	return id
}
