package domain

// Identificadores de pantalla que entiende la capa de UI
const (
	ScreenHome           = "home"
	ScreenPendingRequest = "pending-request"
	ScreenChat           = "chat"
	ScreenChatRating     = "chat-rating"
)

// Decision - resultado del resolutor de navegacion: o no hacer nada,
// o redirigir la UI a una pantalla con parametros
type Decision struct {
	Redirect bool              `json:"redirect"`
	Screen   string            `json:"screen,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

// NoAction - decision vacia reutilizable
func NoAction() Decision {
	return Decision{}
}

func RedirectTo(screen string, params map[string]string) Decision {
	return Decision{
		Redirect: true,
		Screen:   screen,
		Params:   params,
	}
}
