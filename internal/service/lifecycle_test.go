package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"manospy_gateway/internal/backend"
	"manospy_gateway/internal/config"
	"manospy_gateway/internal/domain"
	apperrors "manospy_gateway/pkg/errors"
	"manospy_gateway/pkg/logger"
)

// fakeSessionRepo - cache de sesion en memoria para los tests
type fakeSessionRepo struct {
	mu     sync.Mutex
	states map[uuid.UUID]domain.State
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{states: make(map[uuid.UUID]domain.State)}
}

func (f *fakeSessionRepo) SaveState(ctx context.Context, clientID uuid.UUID, state domain.State, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[clientID] = state
	return nil
}

func (f *fakeSessionRepo) LastState(ctx context.Context, clientID uuid.UUID) (domain.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[clientID], nil
}

func (f *fakeSessionRepo) ClearState(ctx context.Context, clientID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, clientID)
	return nil
}

func newLifecycleBackend(t *testing.T, snapshot *domain.WorkSnapshot) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/active-work") {
			json.NewEncoder(w).Encode(snapshot)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func newLifecycleService(baseURL string, repo *fakeSessionRepo) LifecycleService {
	client := backend.NewClient(config.BackendConfig{BaseURL: baseURL, Timeout: time.Second})
	return NewLifecycleService(client, repo, testLifecycleConfig(), logger.New("error"))
}

// Arranque en frio con pedido pendiente: redireccion a pending-request
func TestColdStartRedirectsToPendingRequest(t *testing.T) {
	requestID := uuid.New()
	clientID := uuid.New()
	server := newLifecycleBackend(t, &domain.WorkSnapshot{
		Request: &domain.ServiceRequest{
			ID:       requestID,
			ClientID: clientID,
			Category: "Plomería",
			Status:   domain.RequestStatusPending,
		},
	})
	defer server.Close()

	repo := newFakeSessionRepo()
	svc := newLifecycleService(server.URL, repo)

	state, decision, err := svc.ColdStart(context.Background(), clientID)
	require.NoError(t, err)

	assert.Equal(t, domain.StateAwaitingAcceptance, state)
	require.True(t, decision.Redirect)
	assert.Equal(t, domain.ScreenPendingRequest, decision.Screen)
	assert.Equal(t, requestID.String(), decision.Params["id"])

	// La clasificacion quedo cacheada para la proxima sesion
	cached, _ := repo.LastState(context.Background(), clientID)
	assert.Equal(t, domain.StateAwaitingAcceptance, cached)
}

func TestColdStartNoActiveWorkStaysHome(t *testing.T) {
	server := newLifecycleBackend(t, &domain.WorkSnapshot{})
	defer server.Close()

	svc := newLifecycleService(server.URL, newFakeSessionRepo())

	state, decision, err := svc.ColdStart(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.StateNoActiveWork, state)
	assert.False(t, decision.Redirect)
}

// Con el backend caido, CurrentState devuelve lo ultimo cacheado en vez
// de colapsar a "sin trabajo activo"
func TestCurrentStateFallsBackToCache(t *testing.T) {
	clientID := uuid.New()
	repo := newFakeSessionRepo()
	repo.SaveState(context.Background(), clientID, domain.StateActiveReservation, time.Hour)

	svc := newLifecycleService("http://127.0.0.1:1", repo)

	state, err := svc.CurrentState(context.Background(), clientID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateActiveReservation, state)
}

func TestWaitForApprovalEventuallyApproved(t *testing.T) {
	var calls int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		status := domain.ApprovalStatusPending
		if calls >= 3 {
			status = domain.ApprovalStatusApproved
		}
		mu.Unlock()
		json.NewEncoder(w).Encode(backend.ApprovalStatusResponse{Status: status})
	}))
	defer server.Close()

	svc := newLifecycleService(server.URL, newFakeSessionRepo())

	status, err := svc.WaitForApproval(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, status)
}

// El sondeo de aprobacion es acotado: agotado el tope, se rinde y lo dice
func TestWaitForApprovalGivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.ApprovalStatusResponse{Status: domain.ApprovalStatusPending})
	}))
	defer server.Close()

	svc := newLifecycleService(server.URL, newFakeSessionRepo())

	status, err := svc.WaitForApproval(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrPollGaveUp)
	assert.Equal(t, domain.ApprovalStatusPending, status)
}

// La sesion de tracker se siembra con el cache y publica transiciones
func TestOpenSessionPublishesTransitions(t *testing.T) {
	requestID := uuid.New()
	clientID := uuid.New()
	server := newLifecycleBackend(t, &domain.WorkSnapshot{
		Request: &domain.ServiceRequest{
			ID:       requestID,
			ClientID: clientID,
			Status:   domain.RequestStatusPending,
		},
	})
	defer server.Close()

	repo := newFakeSessionRepo()
	svc := newLifecycleService(server.URL, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := svc.OpenSession(ctx, clientID)
	require.NoError(t, err)

	select {
	case update := <-session.Updates:
		assert.Equal(t, domain.StateAwaitingAcceptance, update.State)
		assert.True(t, update.Decision.Redirect)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}

	cached, _ := repo.LastState(context.Background(), clientID)
	assert.Equal(t, domain.StateAwaitingAcceptance, cached)
}
