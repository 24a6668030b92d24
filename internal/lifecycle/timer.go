package lifecycle

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"manospy_gateway/internal/domain"
	"manospy_gateway/pkg/logger"
)

// Estados del timer de auto-finalizacion del chat
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerFired
	TimerCancelled
)

// Finalization - evento emitido cuando la cuenta regresiva dispara
type Finalization struct {
	ReservationID    uuid.UUID
	ProfessionalName string
}

// SessionTimer - cuenta regresiva de auto-finalizacion de un chat con
// reserva aceptada. Uno por pantalla de chat abierta; reentrar al chat
// arranca un timer nuevo, nunca se reanuda uno anterior.
type SessionTimer struct {
	mu       sync.Mutex
	state    TimerState
	deadline time.Time
	duration time.Duration
	timer    *time.Timer
	fired    chan Finalization
	log      logger.Logger

	now func() time.Time
}

func NewSessionTimer(duration time.Duration, log logger.Logger) *SessionTimer {
	return &SessionTimer{
		state:    TimerIdle,
		duration: duration,
		fired:    make(chan Finalization, 1),
		log:      log,
		now:      time.Now,
	}
}

// Start arranca la cuenta regresiva al entrar a la pantalla de chat.
// Solo valido desde Idle.
func (t *SessionTimer) Start(reservationID uuid.UUID, professionalName string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TimerIdle {
		return false
	}

	t.state = TimerRunning
	t.deadline = t.now().Add(t.duration)
	t.timer = time.AfterFunc(t.duration, func() {
		t.fire(reservationID, professionalName)
	})

	t.log.Debug("Chat finalization timer started",
		"reservation_id", reservationID, "deadline", t.deadline)
	return true
}

func (t *SessionTimer) fire(reservationID uuid.UUID, professionalName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TimerRunning {
		return
	}

	t.state = TimerFired
	if professionalName == "" {
		professionalName = domain.FallbackProfessionalName
	}

	t.fired <- Finalization{
		ReservationID:    reservationID,
		ProfessionalName: professionalName,
	}
}

// Cancel corta la cuenta regresiva: accion "Finalizar" explicita o salida
// de la pantalla. Un timer cancelado nunca dispara.
func (t *SessionTimer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TimerRunning {
		return false
	}

	t.state = TimerCancelled
	t.timer.Stop()
	return true
}

// Fired - canal con el evento de disparo (a lo sumo uno)
func (t *SessionTimer) Fired() <-chan Finalization {
	return t.fired
}

func (t *SessionTimer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Deadline devuelve el instante de disparo programado (cero si Idle)
func (t *SessionTimer) Deadline() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deadline
}
