package domain

// State - estado canonico del ciclo de vida visto por el cliente
type State string

const (
	StateNoActiveWork       State = "no_active_work"
	StateAwaitingAcceptance State = "awaiting_professional_acceptance"
	StateAwaitingAssignment State = "awaiting_professional_assignment"
	StateActiveReservation  State = "active_reservation"
	StateChatOpen           State = "chat_open"
	StatePendingReview      State = "pending_review"
	StateArchived           State = "archived"
)

// WorkSnapshot - foto cruda del trabajo activo del cliente tal como la
// devuelve el backend; entrada del clasificador
type WorkSnapshot struct {
	Request     *ServiceRequest `json:"request,omitempty"`
	Reservation *Reservation    `json:"reservation,omitempty"`
	// ChatOpen indica que la pantalla de chat esta abierta en esta sesion;
	// lo aporta la sesion local, no el backend
	ChatOpen bool `json:"-"`
}
