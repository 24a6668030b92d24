package domain

import (
	"time"

	"github.com/google/uuid"
)

// Chat - hilo de mensajes; el ID puede ser un chat crudo (informal,
// previo a la reserva) o el ID de la reserva segun la via que lo creo
type Chat struct {
	ID            uuid.UUID  `json:"id"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	Messages      []*Message `json:"messages"`
}

// IsFormal reporta si el chat esta atado a una reserva aceptada
func (c *Chat) IsFormal() bool {
	return c.ReservationID != nil
}

type Message struct {
	ID        uuid.UUID `json:"id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// IsOwn reporta si el mensaje pertenece al cliente que lo mira
func (m *Message) IsOwn(viewerID uuid.UUID) bool {
	return m.SenderID == viewerID
}

// FallbackProfessionalName se usa cuando el nombre de la contraparte
// no esta disponible al redirigir a la calificacion
const FallbackProfessionalName = "Profesional"
