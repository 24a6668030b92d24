package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reservation - compromiso agendado entre cliente y profesional.
// Puede nacer de un ServiceRequest (via formal) o de la conversion
// de un chat informal.
type Reservation struct {
	ID               uuid.UUID  `json:"id"`
	ClientID         uuid.UUID  `json:"client_id"`
	ProfessionalName string     `json:"professional_name"`
	ServiceName      string     `json:"service_name"`
	Status           string     `json:"status"`
	Reviewed         bool       `json:"reviewed"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

const (
	ReservationStatusPending   = "pending"
	ReservationStatusAccepted  = "accepted"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
)

// IsTerminal reporta si la reserva quedo archivada; una reserva
// completada o cancelada nunca vuelve a mutar
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationStatusCompleted || r.Status == ReservationStatusCancelled
}

const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
)
