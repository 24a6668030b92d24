package lifecycle

import (
	"github.com/google/uuid"
	"manospy_gateway/internal/domain"
)

// Resolve decide la unica pantalla destino para una transicion de estado.
// Es pura e idempotente: el mismo par (previo, actual) produce siempre la
// misma decision, y un estado repetido nunca re-dispara una redireccion.
func Resolve(previous, current domain.State, entityID uuid.UUID) domain.Decision {
	// Solo las transiciones redirigen, no cada tick de clasificacion
	if previous == current {
		return domain.NoAction()
	}

	switch current {
	case domain.StateAwaitingAcceptance:
		return domain.RedirectTo(domain.ScreenPendingRequest, map[string]string{
			"id": entityID.String(),
		})
	case domain.StateActiveReservation:
		return domain.RedirectTo(domain.ScreenChat, map[string]string{
			"id": entityID.String(),
		})
	case domain.StatePendingReview:
		return domain.RedirectTo(domain.ScreenChatRating, map[string]string{
			"id": entityID.String(),
		})
	default:
		// NoActiveWork y el resto: la UI se queda donde esta
		return domain.NoAction()
	}
}

// ForceRating - redireccion forzada a la calificacion cuando el timer de
// auto-finalizacion dispara; lleva el nombre de la contraparte con
// fallback generico si no esta disponible
func ForceRating(reservationID uuid.UUID, professionalName string) domain.Decision {
	if professionalName == "" {
		professionalName = domain.FallbackProfessionalName
	}
	return domain.RedirectTo(domain.ScreenChatRating, map[string]string{
		"id":                reservationID.String(),
		"professional_name": professionalName,
	})
}

// EntityID extrae el id relevante de la foto para parametrizar la redireccion
func EntityID(snapshot *domain.WorkSnapshot) uuid.UUID {
	if snapshot == nil {
		return uuid.Nil
	}
	if snapshot.Request != nil && snapshot.Request.Status == domain.RequestStatusPending {
		return snapshot.Request.ID
	}
	if snapshot.Reservation != nil {
		return snapshot.Reservation.ID
	}
	if snapshot.Request != nil {
		return snapshot.Request.ID
	}
	return uuid.Nil
}
