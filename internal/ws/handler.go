package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/nobrega8/netscan2/internal/event"
	"github.com/nobrega8/netscan2/internal/sweep"
	"github.com/nobrega8/netscan2/pkg/models"
)

// Handler provides the WebSocket endpoint for real-time sweep updates.
type Handler struct {
	hub    *Hub
	bus    *event.Bus
	logger *zap.Logger
}

// NewHandler creates a WebSocket handler and subscribes to sweep events.
func NewHandler(bus *event.Bus, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:    NewHub(logger),
		bus:    bus,
		logger: logger,
	}
	h.subscribeToEvents()
	return h
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/sweep", h.handleSweepStream)
}

// Hub exposes the underlying hub, mainly for tests and diagnostics.
func (h *Handler) Hub() *Hub {
	return h.hub
}

// handleSweepStream upgrades the connection to WebSocket and streams sweep
// events until the client disconnects.
func (h *Handler) handleSweepStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		remote: r.RemoteAddr,
		send:   make(chan Message, 256),
		logger: h.logger,
	}

	h.hub.Register(client)

	// Run read and write pumps. When either exits, clean up.
	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	// readPump blocks until client disconnects.
	client.readPump(ctx)

	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// subscribeToEvents forwards sweep engine events to connected clients.
func (h *Handler) subscribeToEvents() {
	if h.bus == nil {
		return
	}

	h.bus.Subscribe(sweep.TopicSweepStarted, func(_ context.Context, ev event.Event) {
		res, ok := ev.Payload.(*models.SweepResult)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageSweepStarted,
			SweepID:   res.ID,
			Timestamp: ev.Timestamp,
			Data: SweepStartedData{
				Subnet: res.Subnet,
				Total:  res.Total,
			},
		})
	})

	h.bus.Subscribe(sweep.TopicSweepProgress, func(_ context.Context, ev event.Event) {
		progress, ok := ev.Payload.(sweep.ProgressEvent)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageSweepProgress,
			SweepID:   progress.SweepID,
			Timestamp: ev.Timestamp,
			Data: SweepProgressData{
				Processed: progress.Processed,
				Total:     progress.Total,
				Found:     progress.Found,
				Fraction:  progress.Fraction(),
			},
		})
	})

	h.bus.Subscribe(sweep.TopicSweepDevice, func(_ context.Context, ev event.Event) {
		devEvent, ok := ev.Payload.(sweep.DeviceEvent)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageSweepDeviceFound,
			SweepID:   devEvent.SweepID,
			Timestamp: ev.Timestamp,
			Data: SweepDeviceFoundData{
				Device: devEvent.Device,
			},
		})
	})

	h.bus.Subscribe(sweep.TopicSweepCompleted, func(_ context.Context, ev event.Event) {
		res, ok := ev.Payload.(*models.SweepResult)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageSweepCompleted,
			SweepID:   res.ID,
			Timestamp: ev.Timestamp,
			Data: SweepCompletedData{
				Status:  res.Status,
				Total:   res.Total,
				Found:   res.Found,
				EndedAt: res.EndedAt,
			},
		})
	})

	h.bus.Subscribe(sweep.TopicSweepError, func(_ context.Context, ev event.Event) {
		errEvent, ok := ev.Payload.(sweep.ErrorEvent)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageSweepError,
			SweepID:   errEvent.SweepID,
			Timestamp: ev.Timestamp,
			Data: SweepErrorData{
				Error: errEvent.Error,
			},
		})
	})

	h.logger.Info("subscribed to sweep events for WebSocket broadcasting")
}
