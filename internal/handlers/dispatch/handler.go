package dispatch

import (
	"net/http"
	"time"
	"tms/config"
	"tms/infras/otel"
	"tms/internal/dispatch"
	"tms/shared/constant"
	"tms/shared/failure"
	"tms/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rs/zerolog/log"
)

// Handler is the transport boundary of the dispatch relay: it upgrades guide
// connections to websockets, subscribes them on connect and unsubscribes on
// disconnect. Guides only listen; there is no inbound command protocol.
type Handler struct {
	relay    dispatch.Relay
	cfg      *config.Config
	otel     otel.Otel
	upgrader websocket.Upgrader
}

func New(relay dispatch.Relay, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		relay: relay,
		cfg:   cfg,
		otel:  otel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/dispatch", func(routerGroup chi.Router) {
		routerGroup.Get("/ws", handler.Subscribe)
	})
}

// Subscribe upgrades the connection and streams assignment offers to the
// authenticated guide until either side closes.
// @Summary Subscribe to assignment offers
// @Description Upgrade to a websocket carrying new-request events for the authenticated guide. A guide may hold several connections; each receives every offer.
// @Tags Dispatch
// @Success 101 "Switching protocols"
// @Failure 401 {object} response.Error
// @Router /v1/dispatch/ws [get]
// @Security BearerAuth
func (handler *Handler) Subscribe(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Subscribe")
	defer scope.End()

	guideID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if guideID == constant.Empty {
		err := failure.Unauthorized("missing guide identity")
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	conn, err := handler.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		scope.TraceError(err)
		log.Error().Err(err).Str("guide_id", guideID).Msg("failed to upgrade dispatch connection")

		return
	}

	channel := handler.relay.Open(guideID)

	scope.AddEvent("Dispatch channel opened for guide " + guideID)
	log.Info().Str("guide_id", guideID).Msg("dispatch channel opened")

	go handler.writePump(conn, channel)
	handler.readPump(conn, channel)
}

// readPump discards inbound frames and watches connection liveness. Its exit,
// for whatever reason, is the disconnect signal that closes the subscription.
func (handler *Handler) readPump(conn *websocket.Conn, channel *dispatch.Channel) {
	defer func() {
		handler.relay.Close(channel)
		conn.Close()

		log.Info().Str("guide_id", channel.GuideID()).Msg("dispatch channel closed")
	}()

	pongWait := time.Duration(handler.cfg.Dispatch.PongWaitSeconds) * time.Second

	conn.SetReadLimit(int64(handler.cfg.Dispatch.MaxMessageSizeByte))

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump serializes relay events onto the wire and keeps the connection
// alive with pings. A closed events channel (disconnect, prune or relay
// shutdown) ends the connection.
func (handler *Handler) writePump(conn *websocket.Conn, channel *dispatch.Channel) {
	writeWait := time.Duration(handler.cfg.Dispatch.WriteWaitSeconds) * time.Second
	pingPeriod := time.Duration(handler.cfg.Dispatch.PingPeriodSeconds) * time.Second

	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-channel.Events():
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))

				return
			}

			if err := conn.WriteJSON(event); err != nil {
				log.Error().Err(err).Str("guide_id", channel.GuideID()).Msg("failed to write dispatch event")

				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
