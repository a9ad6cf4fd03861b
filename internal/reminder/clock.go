package reminder

import (
	"sync"
	"time"
)

const tickInterval = 60 * time.Second

// Clock dispara un callback una vez por minuto de reloj de pared:
// una evaluación inmediata al arrancar, luego un timer hasta el próximo
// límite de minuto, luego un ticker de 60s. Así los horarios "HH:MM"
// se evalúan en el minuto exacto y no con un offset arbitrario
// dependiente de cuándo arrancó el servicio.
type Clock struct {
	mu      sync.Mutex
	running bool
	align   *time.Timer
	ticker  *time.Ticker
	done    chan struct{}

	now func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Start arranca el ciclo. Llamadas re-entrantes mientras corre son no-op.
func (c *Clock) Start(tick func()) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	done := make(chan struct{})
	c.done = done

	delay := alignDelay(c.now())
	c.align = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if !c.running || c.done != done {
			// Stop() ganó la carrera; este callback ya no es relevante.
			c.mu.Unlock()
			return
		}
		ticker := time.NewTicker(tickInterval)
		c.ticker = ticker
		c.mu.Unlock()

		tick()
		go func() {
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					tick()
				}
			}
		}()
	})
	c.mu.Unlock()

	// Evaluación inmediata, fuera del lock: tick puede tardar
	// (llamadas a storage) y no debe bloquear Start/Stop.
	go tick()
}

// Stop cancela el timer de alineación y el ticker. Seguro de llamar
// cuando no corre, y de llamar dos veces.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.running = false

	if c.align != nil {
		c.align.Stop()
		c.align = nil
	}
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// alignDelay: segundos que faltan para el próximo límite de minuto.
// En el segundo :00 exacto devuelve 60s (la evaluación inmediata ya
// cubrió este minuto).
func alignDelay(now time.Time) time.Duration {
	return time.Duration(60-now.Second()) * time.Second
}
