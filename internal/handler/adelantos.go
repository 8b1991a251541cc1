package handler

import (
	"io"
	"net/http"

	"github.com/ELGOKU23/corte/internal/apierror"
	"github.com/ELGOKU23/corte/internal/dto"
	"github.com/ELGOKU23/corte/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// maxFotoBytes caps the accepted photo size (multipart in-memory read).
const maxFotoBytes = 10 << 20 // 10 MiB

type AdelantosHandler struct{ svc service.AdelantoService }

func NewAdelantosHandler(svc service.AdelantoService) *AdelantosHandler {
	return &AdelantosHandler{svc: svc}
}

// Agregar godoc
// @Summary Añade un adelanto a un corte, con foto opcional
// @Tags adelantos
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID del corte"
// @Param valor formData number true "Monto del adelanto"
// @Param fecha formData string true "Fecha del adelanto (YYYY-MM-DD)"
// @Param descripcion formData string false "Descripcion"
// @Param foto formData file false "Foto del comprobante"
// @Success 200 {object} dto.CorteResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Failure 504 {object} apierror.APIError
// @Router /v1/cortes/{id}/adelantos [post]
func (h *AdelantosHandler) Agregar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	valor, err := decimal.NewFromString(c.PostForm("valor"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			apierror.Envelope(apierror.Validation(map[string]string{"valor": "debe ser un número"})))
		return
	}

	req := dto.AgregarAdelantoRequest{
		Valor:       valor,
		Fecha:       c.PostForm("fecha"),
		Descripcion: c.PostForm("descripcion"),
	}

	// Photo is optional; absence of the form file is not an error.
	if fh, err := c.FormFile("foto"); err == nil {
		if fh.Size > maxFotoBytes {
			c.JSON(http.StatusUnprocessableEntity,
				apierror.Envelope(apierror.Validation(map[string]string{"foto": "supera el tamaño máximo de 10MB"})))
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, apierror.New(apierror.KindUnknown, "No se pudo leer la foto"))
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxFotoBytes))
		_ = f.Close()
		if err != nil {
			writeError(c, apierror.New(apierror.KindUnknown, "No se pudo leer la foto"))
			return
		}
		req.Foto = data
		req.FotoNombre = fh.Filename
	}

	resp, err := h.svc.Agregar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
