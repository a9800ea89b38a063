package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	hub       *Hub
	keepalive time.Duration
	logger    *zap.Logger
}

func NewHandler(hub *Hub, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("realtime.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.handler")
	}
	return &Handler{hub: hub, keepalive: 30 * time.Second, logger: l}
}

// Stream sends change notifications for one collection of the caller's
// company as server-sent events.
func (h *Handler) Stream(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, apperror.ErrUnauthorized.Message, nil)
		return
	}

	collection := c.Param("collection")
	if !ValidCollection(collection) {
		response.Error(c, http.StatusNotFound, apperror.CodeNotFound, "Unknown collection", nil)
		return
	}

	topic := Topic(principal.CompanyID, collection)

	ctx, stop := context.WithCancel(c.Request.Context())
	events := make(chan Change, subscriberBuffer)
	unsubscribe := Subscribe(ctx, h.hub, topic, func(change Change) {
		select {
		case events <- change:
		case <-ctx.Done():
		}
	})
	defer unsubscribe()
	defer stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.logger.Debug("stream opened", zap.String("topic", topic), zap.String("uid", principal.UID))

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "Streaming unsupported", nil)
		return
	}

	writeEvent(c.Writer, "connected", gin.H{"topic": topic})
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("stream closed", zap.String("topic", topic))
			return
		case change := <-events:
			writeEvent(c.Writer, "change", change)
			flusher.Flush()
		case <-keepalive.C:
			writeEvent(c.Writer, "ping", gin.H{"timestamp": time.Now().Unix()})
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
