package handler

import (
	"io"

	"github.com/ELGOKU23/corte/internal/feed"

	"github.com/gin-gonic/gin"
)

// StreamHandler exposes the live snapshot feed over SSE. Each request gets
// its own feed session with its own retry budget.
type StreamHandler struct {
	source feed.Source
	policy feed.RetryPolicy
}

func NewStreamHandler(source feed.Source, policy feed.RetryPolicy) *StreamHandler {
	return &StreamHandler{source: source, policy: policy}
}

// Stream godoc
// @Summary Flujo SSE de snapshots en vivo de la coleccion de cortes
// @Tags cortes
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /v1/cortes/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	session := feed.NewSession(h.source, h.policy)
	snaps, errs := session.Open(c.Request.Context())
	defer session.Close()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case snap, ok := <-snaps:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", gin.H{
				"cortes":      snap.Cortes,
				"recibido_en": snap.RecibidoEn,
			})
			return true
		case err, ok := <-errs:
			if !ok {
				return false
			}
			if err == feed.ErrTerminal {
				// The retry budget is spent: tell the client and end the
				// stream so it can reconnect explicitly (a fresh session is
				// the manual reset).
				c.SSEvent("terminal", gin.H{"detail": err.Error()})
				return false
			}
			c.SSEvent("error", gin.H{"detail": err.Error()})
			return true
		}
	})
}
