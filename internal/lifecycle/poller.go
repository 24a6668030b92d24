package lifecycle

import (
	"context"
	"time"

	apperrors "manospy_gateway/pkg/errors"
	"manospy_gateway/pkg/logger"
)

// TickFunc - un tick de sondeo. done=true corta el bucle con exito.
// Un error en un tick se traga y se reintenta en el siguiente.
type TickFunc func(ctx context.Context) (done bool, err error)

// Poller ejecuta consultas de solo lectura contra el backend bajo dos
// politicas: repetir-cada-intervalo y disparo-unico-tras-espera. La
// cancelacion viene siempre del contexto de la sesion que lo aloja.
type Poller struct {
	log logger.Logger
}

func NewPoller(log logger.Logger) *Poller {
	return &Poller{log: log}
}

// Repeat sondea cada interval hasta que tick devuelva done, el contexto
// se cancele, o se agoten maxAttempts (0 = sin tope). Los errores
// transitorios no abortan el bucle: se registran y se sigue.
func (p *Poller) Repeat(ctx context.Context, interval time.Duration, maxAttempts int, tick TickFunc) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	attempts := 0
	for {
		attempts++
		done, err := tick(ctx)
		if err != nil {
			p.log.Warn("Poll tick failed, will retry", "error", err, "attempt", attempts)
		} else if done {
			return nil
		}

		if maxAttempts > 0 && attempts >= maxAttempts {
			p.log.Warn("Poll gave up after max attempts", "attempts", attempts)
			return apperrors.ErrPollGaveUp
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Once ejecuta tick una sola vez despues de delay
func (p *Poller) Once(ctx context.Context, delay time.Duration, tick TickFunc) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if _, err := tick(ctx); err != nil {
		return err
	}
	return nil
}
