package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"manospy_gateway/internal/domain"
	"manospy_gateway/internal/lifecycle"
	"manospy_gateway/internal/middleware"
	"manospy_gateway/internal/service"
	"manospy_gateway/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // En produccion hay que validar el origin
	},
}

// Cadencia de refresco de mensajes mientras el chat esta abierto
const chatRefreshInterval = 2 * time.Second

// Event - evento empujado a la capa de UI
type Event struct {
	Type     string           `json:"type"` // state | navigate | message | error
	State    domain.State     `json:"state,omitempty"`
	Decision *domain.Decision `json:"decision,omitempty"`
	Message  *domain.Message  `json:"message,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// ClientEvent - evento recibido de la UI
type ClientEvent struct {
	Type    string `json:"type"` // chat_open | chat_closed | send | finalize
	Content string `json:"content,omitempty"`
}

type WebSocketHandler struct {
	lifecycleService service.LifecycleService
	chatService      service.ChatService
	log              logger.Logger
}

func NewWebSocketHandler(lifecycleService service.LifecycleService, chatService service.ChatService, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		lifecycleService: lifecycleService,
		chatService:      chatService,
		log:              log,
	}
}

// HandleLifecycle - sesion de seguimiento del ciclo de vida. La conexion
// es la vida de la pantalla: al cerrarse se cancelan sondeos y timers.
func (h *WebSocketHandler) HandleLifecycle(c *gin.Context) {
	clientID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "client not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	session, err := h.lifecycleService.OpenSession(ctx, clientID)
	if err != nil {
		conn.WriteJSON(Event{Type: "error", Error: err.Error()})
		return
	}

	// Bomba de lectura: cierre de conexion y avisos chat_open/chat_closed
	go func() {
		defer cancel()
		for {
			var event ClientEvent
			if err := conn.ReadJSON(&event); err != nil {
				return
			}
			switch event.Type {
			case "chat_open":
				session.Tracker.SetChatOpen(true)
			case "chat_closed":
				session.Tracker.SetChatOpen(false)
			}
		}
	}()

	// Estado inicial para que la UI arranque alineada
	if err := conn.WriteJSON(Event{Type: "state", State: session.Tracker.Current()}); err != nil {
		return
	}

	for update := range session.Updates {
		event := Event{Type: "state", State: update.State}
		if update.Decision.Redirect {
			event.Type = "navigate"
			event.Decision = &update.Decision
		}
		if err := conn.WriteJSON(event); err != nil {
			h.log.Debug("Lifecycle session closed", "client_id", clientID, "error", err)
			return
		}
	}
}

// HandleChat - pantalla de chat abierta. Arranca la cuenta regresiva de
// auto-finalizacion si el chat esta respaldado por una reserva aceptada;
// salir de la pantalla (cerrar la conexion) la cancela.
func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat ID"})
		return
	}

	clientID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "client not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	chatSession, err := h.chatService.Open(ctx, chatID)
	if err != nil {
		conn.WriteJSON(Event{Type: "error", Error: err.Error()})
		return
	}
	if chatSession.Formal() {
		// Salida de pantalla sin finalizar: el timer nunca debe disparar
		defer chatSession.Timer.Cancel()
	}

	// Historial inicial
	messages, err := h.chatService.Messages(ctx, chatID, time.Time{})
	if err != nil {
		conn.WriteJSON(Event{Type: "error", Error: err.Error()})
	}
	lastSeen := time.Time{}
	for _, message := range messages {
		conn.WriteJSON(Event{Type: "message", Message: message})
		lastSeen = message.CreatedAt
	}

	// Bomba de lectura: enviar y finalizar
	incoming := make(chan ClientEvent)
	go func() {
		defer cancel()
		defer close(incoming)
		for {
			var event ClientEvent
			if err := conn.ReadJSON(&event); err != nil {
				return
			}
			select {
			case incoming <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	refresh := time.NewTicker(chatRefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case finalization := <-firedChan(chatSession):
			// Auto-finalizacion: redireccion forzada a la calificacion
			decision := forcedRating(finalization)
			conn.WriteJSON(Event{Type: "navigate", Decision: &decision})
			return

		case event, ok := <-incoming:
			if !ok {
				return
			}
			switch event.Type {
			case "send":
				message, err := h.chatService.Send(ctx, chatID, clientID, event.Content)
				if err != nil {
					conn.WriteJSON(Event{Type: "error", Error: err.Error()})
					continue
				}
				conn.WriteJSON(Event{Type: "message", Message: message})
				lastSeen = message.CreatedAt
			case "finalize":
				decision, err := h.chatService.Finalize(ctx, chatSession)
				if err != nil {
					conn.WriteJSON(Event{Type: "error", Error: err.Error()})
					continue
				}
				conn.WriteJSON(Event{Type: "navigate", Decision: &decision})
				return
			}

		case <-refresh.C:
			// Mensajes nuevos de la contraparte; una falla aislada se salta
			fresh, err := h.chatService.Messages(ctx, chatID, lastSeen)
			if err != nil {
				continue
			}
			for _, message := range fresh {
				if message.SenderID == clientID {
					continue
				}
				conn.WriteJSON(Event{Type: "message", Message: message})
				if message.CreatedAt.After(lastSeen) {
					lastSeen = message.CreatedAt
				}
			}
		}
	}
}

// firedChan devuelve el canal de disparo del timer; nil (bloquea para
// siempre) cuando el chat es informal y no hay cuenta regresiva
func firedChan(s *service.ChatSession) <-chan lifecycle.Finalization {
	if s.Timer == nil {
		return nil
	}
	return s.Timer.Fired()
}

func forcedRating(f lifecycle.Finalization) domain.Decision {
	return lifecycle.ForceRating(f.ReservationID, f.ProfessionalName)
}
