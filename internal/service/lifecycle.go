package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"manospy_gateway/internal/backend"
	"manospy_gateway/internal/config"
	"manospy_gateway/internal/domain"
	"manospy_gateway/internal/lifecycle"
	"manospy_gateway/internal/repository"
	apperrors "manospy_gateway/pkg/errors"
	"manospy_gateway/pkg/logger"
)

type LifecycleService interface {
	// CurrentState clasifica el trabajo activo del cliente ahora mismo;
	// ante falla transitoria devuelve lo ultimo cacheado
	CurrentState(ctx context.Context, clientID uuid.UUID) (domain.State, error)

	// ColdStart resuelve la navegacion al abrir la app: clasifica y decide
	// a que pantalla dirigir partiendo de una pila de pantallas limpia
	ColdStart(ctx context.Context, clientID uuid.UUID) (domain.State, domain.Decision, error)

	// OpenSession arranca un tracker atado al contexto de la sesion de UI;
	// al cancelarse el contexto mueren sondeos y suscripciones
	OpenSession(ctx context.Context, clientID uuid.UUID) (*TrackerSession, error)

	// ApprovalStatus consulta una sola vez la aprobacion del profesional
	ApprovalStatus(ctx context.Context, userID uuid.UUID) (string, error)

	// WaitForApproval sondea la aprobacion cada intervalo con tope de
	// intentos; devuelve ErrPollGaveUp si se agota
	WaitForApproval(ctx context.Context, userID uuid.UUID) (string, error)
}

// TrackerSession - tracker vivo de un cliente conectado mas su canal de
// transiciones ya pasadas por el cache de sesion
type TrackerSession struct {
	ClientID uuid.UUID
	Tracker  *lifecycle.Tracker
	Updates  <-chan lifecycle.Update
}

type lifecycleService struct {
	client      *backend.Client
	sessionRepo repository.SessionRepository
	cfg         config.LifecycleConfig
	poller      *lifecycle.Poller
	log         logger.Logger
}

func NewLifecycleService(client *backend.Client, sessionRepo repository.SessionRepository, cfg config.LifecycleConfig, log logger.Logger) LifecycleService {
	return &lifecycleService{
		client:      client,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		poller:      lifecycle.NewPoller(log),
		log:         log,
	}
}

func (s *lifecycleService) CurrentState(ctx context.Context, clientID uuid.UUID) (domain.State, error) {
	snapshot, err := s.client.ActiveWork(ctx, clientID)
	if err != nil {
		if apperrors.IsTransient(err) {
			// Retener lo ultimo conocido en vez de colapsar a "sin trabajo"
			cached, cacheErr := s.sessionRepo.LastState(ctx, clientID)
			if cacheErr == nil && cached != "" {
				return cached, nil
			}
		}
		return "", err
	}

	state := lifecycle.Classify(snapshot)
	if err := s.sessionRepo.SaveState(ctx, clientID, state, s.cfg.SessionCacheTTL); err != nil {
		s.log.Warn("Failed to cache session state", "client_id", clientID, "error", err)
	}

	return state, nil
}

func (s *lifecycleService) ColdStart(ctx context.Context, clientID uuid.UUID) (domain.State, domain.Decision, error) {
	snapshot, err := s.client.ActiveWork(ctx, clientID)
	if err != nil {
		return "", domain.NoAction(), err
	}

	state := lifecycle.Classify(snapshot)

	// Al arrancar en frio la pila de pantallas esta limpia, asi que la
	// transicion se evalua desde "sin trabajo activo"
	decision := lifecycle.Resolve(domain.StateNoActiveWork, state, lifecycle.EntityID(snapshot))

	if err := s.sessionRepo.SaveState(ctx, clientID, state, s.cfg.SessionCacheTTL); err != nil {
		s.log.Warn("Failed to cache session state", "client_id", clientID, "error", err)
	}

	return state, decision, nil
}

func (s *lifecycleService) OpenSession(ctx context.Context, clientID uuid.UUID) (*TrackerSession, error) {
	seed, err := s.sessionRepo.LastState(ctx, clientID)
	if err != nil {
		s.log.Warn("Failed to load cached state, starting fresh", "client_id", clientID, "error", err)
		seed = ""
	}

	tracker := lifecycle.NewTracker(clientID, s.client, s.cfg.StatusPollInterval, seed, s.log)
	go tracker.Run(ctx)

	// Cada transicion se persiste en el cache de sesion antes de reenviarse
	out := make(chan lifecycle.Update, 16)
	go func() {
		defer close(out)
		for update := range tracker.Updates() {
			saveCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := s.sessionRepo.SaveState(saveCtx, clientID, update.State, s.cfg.SessionCacheTTL); err != nil {
				s.log.Warn("Failed to cache session state", "client_id", clientID, "error", err)
			}
			cancel()
			out <- update
		}
	}()

	s.log.Info("Lifecycle session opened", "client_id", clientID, "seed", tracker.Current())

	return &TrackerSession{
		ClientID: clientID,
		Tracker:  tracker,
		Updates:  out,
	}, nil
}

func (s *lifecycleService) ApprovalStatus(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.client.ApprovalStatus(ctx, userID)
}

func (s *lifecycleService) WaitForApproval(ctx context.Context, userID uuid.UUID) (string, error) {
	var status string
	err := s.poller.Repeat(ctx, s.cfg.ApprovalPollInterval, s.cfg.ApprovalPollMaxAttempts, func(ctx context.Context) (bool, error) {
		current, err := s.client.ApprovalStatus(ctx, userID)
		if err != nil {
			return false, err
		}
		status = current
		return current == domain.ApprovalStatusApproved, nil
	})
	if err != nil {
		return status, err
	}
	return status, nil
}
