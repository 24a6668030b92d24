package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"manospy_gateway/internal/domain"
	"manospy_gateway/pkg/logger"
)

const (
	// Prefijo de claves Redis del estado de sesion
	SessionStateKeyPrefix = "lifecycle:client:%s:state"
)

// SessionState - ultima clasificacion conocida de un cliente, cacheada
// por sesion; no es persistencia durable, el backend sigue siendo dueño
// de todas las entidades
type SessionState struct {
	State     domain.State `json:"state"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type SessionRepository interface {
	// Guardar la ultima clasificacion con TTL de sesion
	SaveState(ctx context.Context, clientID uuid.UUID, state domain.State, ttl time.Duration) error

	// Recuperar la ultima clasificacion; estado vacio si no hay nada cacheado
	LastState(ctx context.Context, clientID uuid.UUID) (domain.State, error)

	// Borrar el estado cacheado al cerrar sesion
	ClearState(ctx context.Context, clientID uuid.UUID) error
}

type sessionRepository struct {
	rdb *redis.Client
	log logger.Logger
}

func NewSessionRepository(rdb *redis.Client, log logger.Logger) SessionRepository {
	return &sessionRepository{
		rdb: rdb,
		log: log,
	}
}

func (r *sessionRepository) getStateKey(clientID uuid.UUID) string {
	return fmt.Sprintf(SessionStateKeyPrefix, clientID.String())
}

func (r *sessionRepository) SaveState(ctx context.Context, clientID uuid.UUID, state domain.State, ttl time.Duration) error {
	entry := SessionState{
		State:     state,
		UpdatedAt: time.Now(),
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		r.log.Error("Failed to marshal session state", "error", err)
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	if err := r.rdb.Set(ctx, r.getStateKey(clientID), entryJSON, ttl).Err(); err != nil {
		r.log.Error("Failed to save session state", "client_id", clientID, "error", err)
		return fmt.Errorf("failed to save session state: %w", err)
	}

	return nil
}

func (r *sessionRepository) LastState(ctx context.Context, clientID uuid.UUID) (domain.State, error) {
	data, err := r.rdb.Get(ctx, r.getStateKey(clientID)).Bytes()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		r.log.Error("Failed to load session state", "client_id", clientID, "error", err)
		return "", err
	}

	var entry SessionState
	if err := json.Unmarshal(data, &entry); err != nil {
		r.log.Error("Failed to unmarshal session state", "error", err)
		return "", err
	}

	return entry.State, nil
}

func (r *sessionRepository) ClearState(ctx context.Context, clientID uuid.UUID) error {
	return r.rdb.Del(ctx, r.getStateKey(clientID)).Err()
}
