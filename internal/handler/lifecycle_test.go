package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"manospy_gateway/internal/domain"
	"manospy_gateway/internal/service"
	apperrors "manospy_gateway/pkg/errors"
	"manospy_gateway/pkg/logger"
)

// stubLifecycleService - respuestas fijas para el handler
type stubLifecycleService struct {
	state    domain.State
	decision domain.Decision
	approval string
	err      error
}

func (s *stubLifecycleService) CurrentState(ctx context.Context, clientID uuid.UUID) (domain.State, error) {
	return s.state, s.err
}

func (s *stubLifecycleService) ColdStart(ctx context.Context, clientID uuid.UUID) (domain.State, domain.Decision, error) {
	return s.state, s.decision, s.err
}

func (s *stubLifecycleService) OpenSession(ctx context.Context, clientID uuid.UUID) (*service.TrackerSession, error) {
	return nil, s.err
}

func (s *stubLifecycleService) ApprovalStatus(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.approval, s.err
}

func (s *stubLifecycleService) WaitForApproval(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.approval, s.err
}

func setupLifecycleRouter(stub *stubLifecycleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Identidad inyectada directo, sin pasar por JWT
	router.Use(func(c *gin.Context) {
		c.Set("client_id", uuid.New())
		c.Next()
	})

	h := NewLifecycleHandler(stub, logger.New("error"))
	router.GET("/lifecycle/state", h.GetState)
	router.GET("/lifecycle/navigation", h.GetNavigation)
	router.GET("/professional/approval", h.GetApproval)
	return router
}

func TestGetState(t *testing.T) {
	router := setupLifecycleRouter(&stubLifecycleService{state: domain.StateAwaitingAcceptance})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/lifecycle/state", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(domain.StateAwaitingAcceptance))
}

func TestGetNavigationWithRedirect(t *testing.T) {
	requestID := uuid.New()
	router := setupLifecycleRouter(&stubLifecycleService{
		state: domain.StateAwaitingAcceptance,
		decision: domain.RedirectTo(domain.ScreenPendingRequest, map[string]string{
			"id": requestID.String(),
		}),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/lifecycle/navigation", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		State    domain.State    `json:"state"`
		Decision domain.Decision `json:"decision"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Decision.Redirect)
	assert.Equal(t, domain.ScreenPendingRequest, body.Decision.Screen)
	assert.Equal(t, requestID.String(), body.Decision.Params["id"])
}

func TestGetStateBackendUnavailable(t *testing.T) {
	router := setupLifecycleRouter(&stubLifecycleService{err: apperrors.ErrBackendUnavailable})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/lifecycle/state", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetApprovalGaveUp(t *testing.T) {
	router := setupLifecycleRouter(&stubLifecycleService{
		approval: domain.ApprovalStatusPending,
		err:      apperrors.ErrPollGaveUp,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/professional/approval?wait=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"gave_up":true`)
}

func TestGetApprovalApproved(t *testing.T) {
	router := setupLifecycleRouter(&stubLifecycleService{approval: domain.ApprovalStatusApproved})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/professional/approval", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), domain.ApprovalStatusApproved)
}
