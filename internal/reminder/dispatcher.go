package reminder

import (
	"sync"
	"time"
)

// dedupWindow: apenas más que un ciclo de tick, para que una misma
// ocurrencia no se anuncie dos veces dentro del mismo minuto (incluso
// con evaluaciones solapadas), pero la misma hora del día siguiente
// cuente como ocurrencia nueva.
const dedupWindow = 61 * time.Second

// dedupSet es el conjunto rodante de ocurrencias ya anunciadas.
// Thread-safe: el tick y las evaluaciones inmediatas pueden solaparse.
type dedupSet struct {
	mu   sync.Mutex
	seen map[Occurrence]time.Time
	now  func() time.Time
}

func newDedupSet() *dedupSet {
	return &dedupSet{
		seen: make(map[Occurrence]time.Time),
		now:  time.Now,
	}
}

// MarkIfNew devuelve true si la ocurrencia no fue anunciada dentro de
// la ventana, y la marca. La mutación es atómica: chequeo y marca bajo
// el mismo lock, para que dos evaluaciones en vuelo no anuncien ambas.
func (d *dedupSet) MarkIfNew(o Occurrence) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()

	if at, ok := d.seen[o]; ok && now.Sub(at) < dedupWindow {
		return false
	}
	d.seen[o] = now

	// Poda perezosa de entradas vencidas; el set es chico
	// (una entrada por dosis anunciada en el último minuto).
	for k, at := range d.seen {
		if now.Sub(at) >= dedupWindow {
			delete(d.seen, k)
		}
	}

	return true
}

func (d *dedupSet) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[Occurrence]time.Time)
}

func (d *dedupSet) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
