package service

import (
	"context"

	"github.com/google/uuid"
	"manospy_gateway/internal/backend"
	"manospy_gateway/pkg/logger"
)

// ActionsService - mutaciones disparadas explicitamente por el usuario.
// Sus fallas se muestran tal cual; la logica de ciclo de vida nunca las
// reintenta sola.
type ActionsService interface {
	ConvertChat(ctx context.Context, chatID uuid.UUID) (uuid.UUID, error)
	CancelRequest(ctx context.Context, requestID uuid.UUID) error
	CancelReservation(ctx context.Context, reservationID uuid.UUID) error
	CompleteReservation(ctx context.Context, reservationID uuid.UUID) error
	SubmitReview(ctx context.Context, reservationID uuid.UUID, rating int, comment string) error
}

type actionsService struct {
	client *backend.Client
	log    logger.Logger
}

func NewActionsService(client *backend.Client, log logger.Logger) ActionsService {
	return &actionsService{
		client: client,
		log:    log,
	}
}

func (s *actionsService) ConvertChat(ctx context.Context, chatID uuid.UUID) (uuid.UUID, error) {
	reservationID, err := s.client.ConvertChatToReservation(ctx, chatID)
	if err != nil {
		s.log.Error("Failed to convert chat to reservation", "chat_id", chatID, "error", err)
		return uuid.Nil, err
	}

	s.log.Info("Chat converted to reservation", "chat_id", chatID, "reservation_id", reservationID)
	return reservationID, nil
}

func (s *actionsService) CancelRequest(ctx context.Context, requestID uuid.UUID) error {
	if err := s.client.CancelRequest(ctx, requestID); err != nil {
		s.log.Error("Failed to cancel request", "request_id", requestID, "error", err)
		return err
	}
	return nil
}

func (s *actionsService) CancelReservation(ctx context.Context, reservationID uuid.UUID) error {
	if err := s.client.CancelReservation(ctx, reservationID); err != nil {
		s.log.Error("Failed to cancel reservation", "reservation_id", reservationID, "error", err)
		return err
	}
	return nil
}

func (s *actionsService) CompleteReservation(ctx context.Context, reservationID uuid.UUID) error {
	if err := s.client.CompleteReservation(ctx, reservationID); err != nil {
		s.log.Error("Failed to complete reservation", "reservation_id", reservationID, "error", err)
		return err
	}
	return nil
}

func (s *actionsService) SubmitReview(ctx context.Context, reservationID uuid.UUID, rating int, comment string) error {
	if err := s.client.SubmitReview(ctx, reservationID, rating, comment); err != nil {
		s.log.Error("Failed to submit review", "reservation_id", reservationID, "error", err)
		return err
	}
	return nil
}
