package notify

import (
	"sync"

	"github.com/jhoicas/movimientos-api/internal/application/ledger"
)

var _ ledger.Notifier = (*Bus)(nil)

// Bus es un pub/sub en proceso para los eventos de cambio del libro de
// movimientos. Los suscriptores reciben por canal; la publicación nunca
// bloquea: si el buffer de un suscriptor está lleno, ese evento se descarta
// para ese suscriptor (quien consume lento repone con un listado).
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan ledger.ChangeEvent
	nextID int
	closed bool
}

// NewBus construye el bus sin suscriptores.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan ledger.ChangeEvent)}
}

// Subscribe registra un suscriptor con el buffer dado y devuelve su canal y la
// función para darse de baja. Darse de baja cierra el canal.
func (b *Bus) Subscribe(buffer int) (<-chan ledger.ChangeEvent, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan ledger.ChangeEvent, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// MovementChanged publica el evento a todos los suscriptores sin bloquear.
func (b *Bus) MovementChanged(ev ledger.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Suscriptor saturado: se descarta este evento para él.
		}
	}
}

// Close cierra todos los canales y rechaza suscripciones futuras.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
