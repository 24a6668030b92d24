package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"manospy_gateway/internal/backend"
	"manospy_gateway/internal/config"
	"manospy_gateway/internal/domain"
	"manospy_gateway/internal/lifecycle"
	apperrors "manospy_gateway/pkg/errors"
	"manospy_gateway/pkg/logger"
)

type ChatService interface {
	// Messages trae los mensajes del chat, opcionalmente posteriores a after
	Messages(ctx context.Context, chatID uuid.UUID, after time.Time) ([]*domain.Message, error)

	// Send publica un mensaje en nombre del cliente
	Send(ctx context.Context, chatID, senderID uuid.UUID, content string) (*domain.Message, error)

	// Open abre la pantalla de chat. Si el chat esta atado a una reserva
	// aceptada arranca la cuenta regresiva de auto-finalizacion.
	Open(ctx context.Context, chatID uuid.UUID) (*ChatSession, error)

	// Finalize - accion "Finalizar" explicita: corta el timer, completa la
	// reserva y devuelve la redireccion a la calificacion
	Finalize(ctx context.Context, session *ChatSession) (domain.Decision, error)
}

// ChatSession - pantalla de chat abierta. El timer vive y muere con ella;
// reentrar crea una sesion nueva con timer nuevo.
type ChatSession struct {
	ChatID           uuid.UUID
	ReservationID    uuid.UUID
	ProfessionalName string
	Timer            *lifecycle.SessionTimer
}

// Formal reporta si la sesion esta respaldada por una reserva aceptada
func (s *ChatSession) Formal() bool {
	return s.Timer != nil
}

type chatService struct {
	client *backend.Client
	cfg    config.LifecycleConfig
	log    logger.Logger
}

func NewChatService(client *backend.Client, cfg config.LifecycleConfig, log logger.Logger) ChatService {
	return &chatService{
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

func (s *chatService) Messages(ctx context.Context, chatID uuid.UUID, after time.Time) ([]*domain.Message, error) {
	return s.client.Messages(ctx, chatID, after)
}

func (s *chatService) Send(ctx context.Context, chatID, senderID uuid.UUID, content string) (*domain.Message, error) {
	if content == "" {
		return nil, apperrors.ErrBadRequest
	}
	return s.client.SendMessage(ctx, chatID, senderID, content)
}

func (s *chatService) Open(ctx context.Context, chatID uuid.UUID) (*ChatSession, error) {
	session := &ChatSession{ChatID: chatID}

	// Un chat formal usa el id de la reserva como id de chat
	reservation, err := s.client.ReservationStatus(ctx, chatID)
	if err != nil {
		// Chat informal pre-reserva: sin timer
		s.log.Debug("Chat is not reservation-backed", "chat_id", chatID, "reason", err)
		return session, nil
	}

	if reservation.Status != domain.ReservationStatusAccepted {
		return session, nil
	}

	session.ReservationID = chatID
	session.ProfessionalName = reservation.ProfessionalName
	session.Timer = lifecycle.NewSessionTimer(s.cfg.ChatFinalizeAfter, s.log)
	session.Timer.Start(chatID, reservation.ProfessionalName)

	s.log.Info("Chat opened with finalization countdown",
		"chat_id", chatID, "finalize_after", s.cfg.ChatFinalizeAfter)

	return session, nil
}

func (s *chatService) Finalize(ctx context.Context, session *ChatSession) (domain.Decision, error) {
	if !session.Formal() {
		return domain.NoAction(), apperrors.ErrBadRequest
	}

	session.Timer.Cancel()

	if err := s.client.CompleteReservation(ctx, session.ReservationID); err != nil {
		// Fallo de accion explicita: se muestra, no se reintenta
		s.log.Error("Failed to complete reservation", "reservation_id", session.ReservationID, "error", err)
		return domain.NoAction(), err
	}

	return lifecycle.ForceRating(session.ReservationID, session.ProfessionalName), nil
}
