package lifecycle

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"manospy_gateway/internal/domain"
)

func pendingRequest() *domain.ServiceRequest {
	return &domain.ServiceRequest{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Category: "Plomería",
		Status:   domain.RequestStatusPending,
	}
}

func acceptedReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:               uuid.New(),
		ClientID:         uuid.New(),
		ProfessionalName: "Juan Benítez",
		ServiceName:      "Plomería",
		Status:           domain.ReservationStatusAccepted,
	}
}

func TestClassifyNoActiveWork(t *testing.T) {
	assert.Equal(t, domain.StateNoActiveWork, Classify(nil))
	assert.Equal(t, domain.StateNoActiveWork, Classify(&domain.WorkSnapshot{}))
}

func TestClassifyPendingRequest(t *testing.T) {
	snapshot := &domain.WorkSnapshot{Request: pendingRequest()}
	assert.Equal(t, domain.StateAwaitingAcceptance, Classify(snapshot))
}

func TestClassifyAwaitingAssignment(t *testing.T) {
	request := pendingRequest()
	request.Status = domain.RequestStatusAccepted
	snapshot := &domain.WorkSnapshot{Request: request}
	assert.Equal(t, domain.StateAwaitingAssignment, Classify(snapshot))
}

func TestClassifyActiveReservation(t *testing.T) {
	snapshot := &domain.WorkSnapshot{Reservation: acceptedReservation()}
	assert.Equal(t, domain.StateActiveReservation, Classify(snapshot))

	snapshot.ChatOpen = true
	assert.Equal(t, domain.StateChatOpen, Classify(snapshot))
}

func TestClassifyPendingReviewAndArchived(t *testing.T) {
	reservation := acceptedReservation()
	reservation.Status = domain.ReservationStatusCompleted
	snapshot := &domain.WorkSnapshot{Reservation: reservation}
	assert.Equal(t, domain.StatePendingReview, Classify(snapshot))

	reservation.Reviewed = true
	assert.Equal(t, domain.StateArchived, Classify(snapshot))

	reservation.Status = domain.ReservationStatusCancelled
	reservation.Reviewed = false
	assert.Equal(t, domain.StateArchived, Classify(snapshot))
}

// Si pedido pendiente y reserva aceptada conviven (invariante del backend
// roto), gana el pedido pendiente de forma determinista
func TestClassifyPrecedenceOnInvariantViolation(t *testing.T) {
	snapshot := &domain.WorkSnapshot{
		Request:     pendingRequest(),
		Reservation: acceptedReservation(),
	}
	assert.Equal(t, domain.StateAwaitingAcceptance, Classify(snapshot))
}

// Clasificar dos veces la misma foto produce el mismo estado
func TestClassifyIdempotent(t *testing.T) {
	snapshot := &domain.WorkSnapshot{Request: pendingRequest()}
	first := Classify(snapshot)
	second := Classify(snapshot)
	assert.Equal(t, first, second)
}

// Ante falla de sondeo la salida debe ser identica a la anterior
func TestClassifierHoldsLastKnownGoodOnFailure(t *testing.T) {
	classifier := NewClassifier("")

	snapshot := &domain.WorkSnapshot{Request: pendingRequest()}
	state := classifier.Observe(snapshot, nil)
	assert.Equal(t, domain.StateAwaitingAcceptance, state)

	held := classifier.Observe(nil, errors.New("connection refused"))
	assert.Equal(t, state, held)
	assert.Equal(t, state, classifier.Last())
}

func TestClassifierSeed(t *testing.T) {
	classifier := NewClassifier(domain.StateActiveReservation)
	assert.Equal(t, domain.StateActiveReservation, classifier.Last())

	// La semilla tambien se retiene si el primer sondeo falla
	held := classifier.Observe(nil, errors.New("timeout"))
	assert.Equal(t, domain.StateActiveReservation, held)
}
