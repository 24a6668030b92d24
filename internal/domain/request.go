package domain

import (
	"time"

	"github.com/google/uuid"
)

// ServiceRequest - pedido de servicio todavia sin emparejar
type ServiceRequest struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusExpired   = "expired"
	RequestStatusCancelled = "cancelled"
)

// IsTerminal reporta si el pedido ya no puede mutar
func (r *ServiceRequest) IsTerminal() bool {
	return r.Status == RequestStatusExpired || r.Status == RequestStatusCancelled
}
