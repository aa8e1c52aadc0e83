// Package fanout implementa el reparto de snapshots a los suscriptores de
// una colección. Lo comparten los tres backends del store (memoria, SQLite
// y PostgreSQL): cada uno resuelve la persistencia y delega aquí la entrega.
package fanout

import (
	"sync"

	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
)

// Hub mantiene los suscriptores por colección y les entrega snapshots
// completos. La entrega es asíncrona y coalescente: si un suscriptor va
// lento, los snapshots intermedios se descartan y siempre recibe el último.
// Eso preserva el contrato snapshot-replace: el consumidor ve siempre una
// lista consistente y final, nunca un delta parcial.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]*subscriber
	nextID int
	closed bool
}

type subscriber struct {
	onData  func(realtime.Snapshot)
	onError func(error)
	ch      chan realtime.Snapshot
	done    chan struct{}
	once    sync.Once
}

// NewHub construye un hub vacío.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]*subscriber)}
}

// Subscribe registra un suscriptor y le entrega initial como primer
// snapshot. Devuelve la función de cancelación (idempotente).
func (h *Hub) Subscribe(collection string, initial realtime.Snapshot, onData func(realtime.Snapshot), onError func(error)) realtime.Unsubscribe {
	sub := &subscriber{
		onData:  onData,
		onError: onError,
		ch:      make(chan realtime.Snapshot, 1),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return func() {}
	}
	h.nextID++
	id := h.nextID
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]*subscriber)
	}
	h.subs[collection][id] = sub
	h.mu.Unlock()

	sub.ch <- initial
	go sub.pump()

	return func() {
		h.mu.Lock()
		delete(h.subs[collection], id)
		h.mu.Unlock()
		sub.stop()
	}
}

// Publish entrega snap a todos los suscriptores de la colección, incluido
// el que haya originado el cambio: no hay supresión de eco local.
func (h *Hub) Publish(collection string, snap realtime.Snapshot) {
	h.mu.Lock()
	targets := make([]*subscriber, 0, len(h.subs[collection]))
	for _, s := range h.subs[collection] {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		s.offer(snap)
	}
}

// Fail notifica un fallo de suscripción (p. ej. permiso denegado en una
// recarga) a todos los suscriptores de la colección y los da de baja: tras
// el error no llegan más snapshots.
func (h *Hub) Fail(collection string, err error) {
	h.mu.Lock()
	targets := h.subs[collection]
	delete(h.subs, collection)
	h.mu.Unlock()

	for _, s := range targets {
		if s.onError != nil {
			s.onError(err)
		}
		s.stop()
	}
}

// Close cancela todas las suscripciones sin notificar error.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := h.subs
	h.subs = make(map[string]map[int]*subscriber)
	h.mu.Unlock()

	for _, byID := range all {
		for _, s := range byID {
			s.stop()
		}
	}
}

func (s *subscriber) pump() {
	for {
		select {
		case snap := <-s.ch:
			s.onData(snap)
		case <-s.done:
			return
		}
	}
}

// offer encola snap reemplazando cualquier snapshot pendiente sin entregar.
func (s *subscriber) offer(snap realtime.Snapshot) {
	for {
		select {
		case <-s.done:
			return
		case s.ch <- snap:
			return
		default:
		}
		// Mailbox lleno: descartar el snapshot pendiente y reintentar.
		select {
		case <-s.ch:
		default:
		}
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}
