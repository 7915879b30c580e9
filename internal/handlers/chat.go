// internal/handlers/chat.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vehicle-gateway/internal/config"
	"github.com/javajoker/vehicle-gateway/internal/i18n"
	"github.com/javajoker/vehicle-gateway/internal/models"
	"github.com/javajoker/vehicle-gateway/internal/realtime"
	"github.com/javajoker/vehicle-gateway/internal/services"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256

	eventError = "error"
)

// ChatHandler relays one browser WebSocket to one upstream chat connection
// owned by that session.
type ChatHandler struct {
	realtimeCfg     config.RealtimeConfig
	presenceService *services.PresenceService
	upgrader        websocket.Upgrader
}

func NewChatHandler(realtimeCfg config.RealtimeConfig, allowedOrigins []string, presenceService *services.PresenceService) *ChatHandler {
	return &ChatHandler{
		realtimeCfg:     realtimeCfg,
		presenceService: presenceService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

type chatSession struct {
	viewer   services.Viewer
	conn     *websocket.Conn
	upstream *realtime.Client
	presence *services.PresenceService
	lang     string
	send     chan []byte
	done     chan struct{}
	stopOnce sync.Once
}

// GET /chat/ws
func (h *ChatHandler) Relay(c *gin.Context) {
	viewer, ok := viewerFromContext(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).WithField("viewer_id", viewer.ID).Warn("WebSocket upgrade failed")
		return
	}

	session := &chatSession{
		viewer:   viewer,
		conn:     conn,
		upstream: realtime.NewClient(realtime.OptionsFromConfig(h.realtimeCfg, viewer.Token)),
		presence: h.presenceService,
		lang:     utils.GetLangFromContext(c),
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
	session.bind()

	go session.writePump()

	if err := session.upstream.Connect(context.Background()); err != nil {
		logrus.WithError(err).WithField("viewer_id", viewer.ID).Warn("Upstream chat connection failed")
		session.emit(eventError, gin.H{"message": i18n.T(session.lang, i18n.KeyRealtimeUnavailable)})
		session.shutdown()
		return
	}

	session.readPump()
}

// bind wires upstream events to the browser and to the presence store.
func (s *chatSession) bind() {
	s.upstream.OnStatus(func(status realtime.Status) {
		s.emit(realtime.EventConnectionStatus, gin.H{"status": status})
	})

	s.upstream.On(realtime.EventUserOnline, func(data json.RawMessage) {
		var event models.PresenceEvent
		if json.Unmarshal(data, &event) == nil {
			s.logPresence(s.presence.SetOnline(context.Background(), event.UserID))
		}
	})
	s.upstream.On(realtime.EventUserOffline, func(data json.RawMessage) {
		var event models.PresenceEvent
		if json.Unmarshal(data, &event) == nil {
			s.logPresence(s.presence.SetOffline(context.Background(), event.UserID, event.LastSeen))
		}
	})
	s.upstream.On(realtime.EventContactStatus, func(data json.RawMessage) {
		var event models.PresenceEvent
		if json.Unmarshal(data, &event) != nil {
			return
		}
		if event.Online {
			s.logPresence(s.presence.SetOnline(context.Background(), event.UserID))
		} else {
			s.logPresence(s.presence.SetOffline(context.Background(), event.UserID, event.LastSeen))
		}
	})
	s.upstream.On(realtime.EventOnlineUsers, func(data json.RawMessage) {
		var event models.OnlineUsers
		if json.Unmarshal(data, &event) == nil {
			s.logPresence(s.presence.Replace(context.Background(), event.UserIDs))
		}
	})

	s.upstream.OnAny(func(frame realtime.Frame) {
		s.forward(frame)
	})
}

func (s *chatSession) readPump() {
	defer s.shutdown()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame realtime.Frame
		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("viewer_id", s.viewer.ID).Debug("Browser socket closed")
			}
			return
		}

		if !realtime.IsClientEvent(frame.Event) {
			logrus.WithFields(logrus.Fields{
				"viewer_id": s.viewer.ID,
				"event":     frame.Event,
			}).Debug("Dropped unknown chat event")
			continue
		}

		if err := s.upstream.EmitFrame(frame); err != nil {
			s.emit(eventError, gin.H{"event": frame.Event, "message": i18n.T(s.lang, i18n.KeyRealtimeUnavailable)})
		}
	}
}

func (s *chatSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			// Drain what is already queued before closing.
			for {
				select {
				case message := <-s.send:
					s.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if s.conn.WriteMessage(websocket.TextMessage, message) != nil {
						return
					}
				default:
					s.conn.SetWriteDeadline(time.Now().Add(writeWait))
					s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		}
	}
}

func (s *chatSession) emit(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.forward(realtime.Frame{Event: event, Data: data})
}

// forward queues a frame for the browser. A session that cannot keep up
// loses frames rather than stalling the upstream read loop.
func (s *chatSession) forward(frame realtime.Frame) {
	message, err := json.Marshal(frame)
	if err != nil {
		return
	}

	select {
	case <-s.done:
	case s.send <- message:
	default:
		logrus.WithFields(logrus.Fields{
			"viewer_id": s.viewer.ID,
			"event":     frame.Event,
		}).Warn("Chat send buffer full, frame dropped")
	}
}

func (s *chatSession) shutdown() {
	s.stopOnce.Do(func() {
		s.upstream.Close()
		close(s.done)
	})
}

func (s *chatSession) logPresence(err error) {
	if err != nil {
		logrus.WithError(err).Warn("Failed to update presence")
	}
}

// GET /chat/presence?user_ids=a,b
func (h *ChatHandler) GetPresence(c *gin.Context) {
	var userIDs []string
	for _, id := range strings.Split(c.Query("user_ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			userIDs = append(userIDs, id)
		}
	}

	snapshot, err := h.presenceService.Snapshot(c.Request.Context(), userIDs...)
	if err != nil {
		logrus.WithError(err).Warn("Failed to read presence")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, snapshot)
}
