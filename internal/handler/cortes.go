package handler

import (
	"net/http"

	"github.com/ELGOKU23/corte/internal/dto"
	"github.com/ELGOKU23/corte/internal/service"

	"github.com/gin-gonic/gin"
)

type CortesHandler struct{ svc service.CorteService }

func NewCortesHandler(svc service.CorteService) *CortesHandler { return &CortesHandler{svc: svc} }

// Crear godoc
// @Summary Registra un nuevo corte
// @Tags cortes
// @Accept json
// @Produce json
// @Param body body dto.CrearCorteRequest true "Datos del corte"
// @Success 201 {object} dto.CorteResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/cortes [post]
func (h *CortesHandler) Crear(c *gin.Context) {
	var req dto.CrearCorteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista todos los cortes, más reciente primero
// @Tags cortes
// @Produce json
// @Success 200 {array} dto.CorteResponse
// @Router /v1/cortes [get]
func (h *CortesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un corte por su ID
// @Tags cortes
// @Produce json
// @Param id path string true "ID del corte"
// @Success 200 {object} dto.CorteResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cortes/{id} [get]
func (h *CortesHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Editar godoc
// @Summary Edita cantidad, valor y descripcion de un corte no finalizado
// @Tags cortes
// @Accept json
// @Produce json
// @Param id path string true "ID del corte"
// @Param body body dto.EditarCorteRequest true "Nuevos valores"
// @Success 200 {object} dto.CorteResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/cortes/{id} [put]
func (h *CortesHandler) Editar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.EditarCorteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Editar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Iniciar godoc
// @Summary Marca el inicio de produccion de un corte
// @Tags cortes
// @Produce json
// @Param id path string true "ID del corte"
// @Success 200 {object} dto.CorteResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/cortes/{id}/iniciar [post]
func (h *CortesHandler) Iniciar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Iniciar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalizar godoc
// @Summary Finaliza un corte iniciado y encola su reporte
// @Tags cortes
// @Produce json
// @Param id path string true "ID del corte"
// @Success 200 {object} dto.CorteResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/cortes/{id}/finalizar [post]
func (h *CortesHandler) Finalizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Finalizar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
