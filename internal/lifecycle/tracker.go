package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"manospy_gateway/internal/domain"
	"manospy_gateway/pkg/logger"
)

// StatusSource - lo que el tracker necesita del backend remoto
type StatusSource interface {
	ActiveWork(ctx context.Context, clientID uuid.UUID) (*domain.WorkSnapshot, error)
}

// Update - cambio de estado publicado a la sesion de UI suscripta
type Update struct {
	State    domain.State    `json:"state"`
	Decision domain.Decision `json:"decision"`
}

// Tracker - una instancia por sesion de cliente conectada. Encadena
// poller -> clasificador -> resolutor y publica las transiciones; todo
// muere junto con el contexto de la sesion.
type Tracker struct {
	clientID   uuid.UUID
	source     StatusSource
	classifier *Classifier
	poller     *Poller
	interval   time.Duration
	log        logger.Logger

	mu       sync.Mutex
	prev     domain.State
	chatOpen bool

	updates chan Update
}

// NewTracker crea el tracker sembrado con la ultima clasificacion
// conocida (cache de sesion), para no rebotar al cliente antes del
// primer sondeo
func NewTracker(clientID uuid.UUID, source StatusSource, interval time.Duration, seed domain.State, log logger.Logger) *Tracker {
	if seed == "" {
		seed = domain.StateNoActiveWork
	}
	return &Tracker{
		clientID:   clientID,
		source:     source,
		classifier: NewClassifier(seed),
		poller:     NewPoller(log),
		interval:   interval,
		log:        log,
		prev:       seed,
		updates:    make(chan Update, 16),
	}
}

// Run sondea hasta que el contexto muera. Primer tick inmediato.
func (t *Tracker) Run(ctx context.Context) {
	defer close(t.updates)

	err := t.poller.Repeat(ctx, t.interval, 0, func(ctx context.Context) (bool, error) {
		t.tick(ctx)
		return false, nil
	})
	if err != nil && err != context.Canceled {
		t.log.Debug("Tracker stopped", "client_id", t.clientID, "reason", err)
	}
}

func (t *Tracker) tick(ctx context.Context) {
	snapshot, err := t.source.ActiveWork(ctx, t.clientID)
	if err != nil {
		// Falla transitoria: el clasificador retiene lo ultimo bueno
		t.log.Warn("Active work poll failed", "client_id", t.clientID, "error", err)
	}

	t.mu.Lock()
	if snapshot != nil {
		snapshot.ChatOpen = t.chatOpen
	}
	current := t.classifier.Observe(snapshot, err)
	previous := t.prev
	if current == previous {
		t.mu.Unlock()
		return
	}
	t.prev = current
	t.mu.Unlock()

	decision := Resolve(previous, current, EntityID(snapshot))
	t.publish(Update{State: current, Decision: decision})

	t.log.Info("Lifecycle state changed",
		"client_id", t.clientID, "from", previous, "to", current,
		"redirect", decision.Redirect, "screen", decision.Screen)
}

func (t *Tracker) publish(update Update) {
	select {
	case t.updates <- update:
	default:
		// El suscriptor no consume; se descarta lo mas viejo no leido
		t.log.Warn("Update channel full, dropping update", "client_id", t.clientID)
	}
}

// Updates - canal de transiciones para la sesion de UI
func (t *Tracker) Updates() <-chan Update {
	return t.updates
}

// Current devuelve la ultima clasificacion conocida
func (t *Tracker) Current() domain.State {
	return t.classifier.Last()
}

// SetChatOpen marca si la pantalla de chat esta abierta en esta sesion;
// afecta la clasificacion del proximo tick
func (t *Tracker) SetChatOpen(open bool) {
	t.mu.Lock()
	t.chatOpen = open
	t.mu.Unlock()
}

// ForcePush empuja una decision fuera del ciclo de sondeo (disparo del
// timer de auto-finalizacion)
func (t *Tracker) ForcePush(decision domain.Decision) {
	t.publish(Update{State: t.classifier.Last(), Decision: decision})
}
