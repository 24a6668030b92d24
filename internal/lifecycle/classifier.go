package lifecycle

import (
	"sync"

	"manospy_gateway/internal/domain"
)

// Classify - funcion pura que deriva el estado canonico de la foto cruda.
// Orden de precedencia fijo: pedido pendiente > reserva aceptada > nada.
// Si el backend alguna vez rompe el invariante de un solo trabajo activo,
// la precedencia decide igual de forma determinista.
func Classify(snapshot *domain.WorkSnapshot) domain.State {
	if snapshot == nil {
		return domain.StateNoActiveWork
	}

	if snapshot.Request != nil {
		switch snapshot.Request.Status {
		case domain.RequestStatusPending:
			return domain.StateAwaitingAcceptance
		case domain.RequestStatusAccepted:
			// Profesional respondio pero la reserva todavia no existe
			if snapshot.Reservation == nil {
				return domain.StateAwaitingAssignment
			}
		}
	}

	if snapshot.Reservation != nil {
		switch snapshot.Reservation.Status {
		case domain.ReservationStatusAccepted:
			if snapshot.ChatOpen {
				return domain.StateChatOpen
			}
			return domain.StateActiveReservation
		case domain.ReservationStatusCompleted:
			if !snapshot.Reservation.Reviewed {
				return domain.StatePendingReview
			}
			return domain.StateArchived
		case domain.ReservationStatusCancelled:
			return domain.StateArchived
		}
	}

	return domain.StateNoActiveWork
}

// Classifier envuelve Classify reteniendo la ultima clasificacion buena:
// ante una falla de sondeo el estado no cambia, para no rebotar al
// usuario a la pantalla equivocada por un parpadeo de red
type Classifier struct {
	mu   sync.Mutex
	last domain.State
}

func NewClassifier(seed domain.State) *Classifier {
	if seed == "" {
		seed = domain.StateNoActiveWork
	}
	return &Classifier{last: seed}
}

// Observe clasifica la foto nueva, o devuelve la ultima clasificacion
// conocida si el sondeo fallo
func (c *Classifier) Observe(snapshot *domain.WorkSnapshot, pollErr error) domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pollErr != nil {
		return c.last
	}

	c.last = Classify(snapshot)
	return c.last
}

// Last devuelve la ultima clasificacion conocida
func (c *Classifier) Last() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
