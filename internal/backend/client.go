package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"manospy_gateway/internal/config"
	"manospy_gateway/internal/domain"
	apperrors "manospy_gateway/pkg/errors"
)

// Client - cliente HTTP hacia el backend principal de ManosPy.
// Todas las entidades viven alla; el gateway solo pide copias frescas.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// RequestStatusResponse - estado crudo de un pedido de servicio
type RequestStatusResponse struct {
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ReservationStatusResponse - estado crudo de una reserva
type ReservationStatusResponse struct {
	Status           string `json:"status"`
	ProfessionalName string `json:"professional_name"`
	ServiceName      string `json:"service_name"`
	Reviewed         bool   `json:"reviewed"`
}

// ApprovalStatusResponse - estado de verificacion del profesional
type ApprovalStatusResponse struct {
	Status string `json:"status"`
}

// ConvertChatResponse - resultado de convertir un chat informal en reserva
type ConvertChatResponse struct {
	ReservationID uuid.UUID `json:"reservation_id"`
}

// SendMessageRequest - cuerpo para publicar un mensaje
type SendMessageRequest struct {
	SenderID uuid.UUID `json:"sender_id"`
	Content  string    `json:"content"`
}

// ReviewRequest - cuerpo para calificar una reserva completada
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// ActiveWork devuelve la foto combinada del trabajo activo del cliente:
// pedido pendiente y/o reserva no terminal, si existen
func (c *Client) ActiveWork(ctx context.Context, clientID uuid.UUID) (*domain.WorkSnapshot, error) {
	var snapshot domain.WorkSnapshot
	path := fmt.Sprintf("/clients/%s/active-work", clientID)
	if err := c.get(ctx, path, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// RequestStatus consulta el estado de un pedido de servicio
func (c *Client) RequestStatus(ctx context.Context, requestID uuid.UUID) (*RequestStatusResponse, error) {
	var resp RequestStatusResponse
	path := fmt.Sprintf("/requests/%s/status", requestID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReservationStatus consulta el estado de una reserva
func (c *Client) ReservationStatus(ctx context.Context, reservationID uuid.UUID) (*ReservationStatusResponse, error) {
	var resp ReservationStatusResponse
	path := fmt.Sprintf("/reservations/%s/status", reservationID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ApprovalStatus consulta la aprobacion de un profesional registrado
func (c *Client) ApprovalStatus(ctx context.Context, userID uuid.UUID) (string, error) {
	var resp ApprovalStatusResponse
	path := fmt.Sprintf("/professionals/%s/approval", userID)
	if err := c.get(ctx, path, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// ConvertChatToReservation formaliza un chat informal; la dispara el
// usuario, nunca la logica de ciclo de vida
func (c *Client) ConvertChatToReservation(ctx context.Context, chatID uuid.UUID) (uuid.UUID, error) {
	var resp ConvertChatResponse
	path := fmt.Sprintf("/chats/%s/convert", chatID)
	if err := c.post(ctx, path, nil, &resp, http.StatusCreated); err != nil {
		return uuid.Nil, err
	}
	return resp.ReservationID, nil
}

// CancelRequest cancela un pedido pendiente
func (c *Client) CancelRequest(ctx context.Context, requestID uuid.UUID) error {
	path := fmt.Sprintf("/requests/%s/cancel", requestID)
	return c.post(ctx, path, nil, nil, http.StatusOK)
}

// CancelReservation cancela una reserva
func (c *Client) CancelReservation(ctx context.Context, reservationID uuid.UUID) error {
	path := fmt.Sprintf("/reservations/%s/cancel", reservationID)
	return c.post(ctx, path, nil, nil, http.StatusOK)
}

// CompleteReservation marca la reserva como completada
func (c *Client) CompleteReservation(ctx context.Context, reservationID uuid.UUID) error {
	path := fmt.Sprintf("/reservations/%s/complete", reservationID)
	return c.post(ctx, path, nil, nil, http.StatusOK)
}

// SubmitReview envia la calificacion de una reserva completada
func (c *Client) SubmitReview(ctx context.Context, reservationID uuid.UUID, rating int, comment string) error {
	path := fmt.Sprintf("/reservations/%s/review", reservationID)
	return c.post(ctx, path, &ReviewRequest{Rating: rating, Comment: comment}, nil, http.StatusCreated)
}

// Messages trae los mensajes del chat posteriores a after (cero = todos)
func (c *Client) Messages(ctx context.Context, chatID uuid.UUID, after time.Time) ([]*domain.Message, error) {
	path := fmt.Sprintf("/chats/%s/messages", chatID)
	if !after.IsZero() {
		path = fmt.Sprintf("%s?after=%d", path, after.UnixMilli())
	}
	var messages []*domain.Message
	if err := c.get(ctx, path, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage publica un mensaje en el chat
func (c *Client) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, content string) (*domain.Message, error) {
	path := fmt.Sprintf("/chats/%s/messages", chatID)
	var message domain.Message
	req := &SendMessageRequest{SenderID: senderID, Content: content}
	if err := c.post(ctx, path, req, &message, http.StatusCreated); err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Falla de transporte: transitoria para los sondeos
		return fmt.Errorf("%w: %v", apperrors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}, wantStatus int) error {
	var bodyReader io.Reader
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, wantStatus); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}

	bodyBytes, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: backend returned status %d", apperrors.ErrBackendUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("%w: backend returned status %d: %s", apperrors.ErrActionFailed, resp.StatusCode, string(bodyBytes))
	}
}
