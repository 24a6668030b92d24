package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"manospy_gateway/internal/middleware"
	"manospy_gateway/internal/service"
	apperrors "manospy_gateway/pkg/errors"
	"manospy_gateway/pkg/logger"
)

type LifecycleHandler struct {
	lifecycleService service.LifecycleService
	log              logger.Logger
}

func NewLifecycleHandler(lifecycleService service.LifecycleService, log logger.Logger) *LifecycleHandler {
	return &LifecycleHandler{
		lifecycleService: lifecycleService,
		log:              log,
	}
}

// GetState devuelve la clasificacion actual del cliente autenticado
func (h *LifecycleHandler) GetState(c *gin.Context) {
	clientID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "client not authenticated"})
		return
	}

	state, err := h.lifecycleService.CurrentState(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

// GetNavigation resuelve la navegacion de arranque en frio
func (h *LifecycleHandler) GetNavigation(c *gin.Context) {
	clientID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "client not authenticated"})
		return
	}

	state, decision, err := h.lifecycleService.ColdStart(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":    state,
		"decision": decision,
	})
}

// GetApproval consulta la aprobacion del profesional. Con ?wait=true
// sondea cada intervalo hasta aprobacion o tope de intentos.
func (h *LifecycleHandler) GetApproval(c *gin.Context) {
	clientID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "client not authenticated"})
		return
	}

	var status string
	var err error
	if c.Query("wait") == "true" {
		status, err = h.lifecycleService.WaitForApproval(c.Request.Context(), clientID)
	} else {
		status, err = h.lifecycleService.ApprovalStatus(c.Request.Context(), clientID)
	}

	if errors.Is(err, apperrors.ErrPollGaveUp) {
		// Tope agotado: la UI debe ofrecer refresco manual
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"gave_up": true,
		})
		return
	}
	if err != nil {
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status, "gave_up": false})
}
