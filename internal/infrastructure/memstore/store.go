// Package memstore implementa el store realtime en memoria. Es el backend
// por defecto en desarrollo y el que usan los tests: mismas semánticas que
// los backends persistentes (snapshot-replace, eco al propio escritor,
// patch-crea-si-no-existe) sin red de por medio.
package memstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/fanout"
)

var _ realtime.Store = (*Store)(nil)

// Store guarda los documentos por colección e id y reparte snapshots vía el
// hub. Update se serializa con el mutex global del store, lo que lo hace
// atómico frente a cualquier otra operación.
type Store struct {
	mu     sync.Mutex
	data   map[string]map[string]json.RawMessage
	hub    *fanout.Hub
	closed bool
}

// New construye un store vacío.
func New() *Store {
	return &Store{
		data: make(map[string]map[string]json.RawMessage),
		hub:  fanout.NewHub(),
	}
}

// Subscribe entrega el snapshot actual de inmediato y luego en cada cambio.
func (s *Store) Subscribe(collection string, onData func(realtime.Snapshot), onError func(error)) (realtime.Unsubscribe, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New("memstore: store cerrado")
	}
	initial := s.snapshotLocked(collection)
	s.mu.Unlock()

	return s.hub.Subscribe(collection, initial, onData, onError), nil
}

// Get lectura one-shot; (nil, nil) si el documento no existe.
func (s *Store) Get(_ context.Context, collection, id string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.data[collection][id]
	if !ok {
		return nil, nil
	}
	out := make(json.RawMessage, len(doc))
	copy(out, doc)
	return out, nil
}

// GetAll lectura one-shot de la colección completa.
func (s *Store) GetAll(_ context.Context, collection string) (realtime.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(collection), nil
}

// Write reemplaza el documento completo y notifica a los suscriptores.
func (s *Store) Write(_ context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memstore: serializar documento: %w", err)
	}
	s.mu.Lock()
	s.putLocked(collection, id, raw)
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.Publish(collection, snap)
	return nil
}

// Patch fusiona los campos dados sobre el documento. Si el id no existe,
// crea el documento solo con esos campos (semántica heredada del store).
func (s *Store) Patch(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	merged := make(map[string]any)
	if cur, ok := s.data[collection][id]; ok {
		if err := json.Unmarshal(cur, &merged); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("memstore: documento corrupto en %s/%s: %w", collection, id, err)
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("memstore: serializar patch: %w", err)
	}
	s.putLocked(collection, id, raw)
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.Publish(collection, snap)
	return nil
}

// Delete elimina el documento; borrar un id inexistente no es error.
func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	delete(s.data[collection], id)
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.Publish(collection, snap)
	return nil
}

// PushKey genera un id nuevo sin escribir nada.
func (s *Store) PushKey(string) string {
	return uuid.New().String()
}

// Update ejecuta fn bajo el mutex del store: lectura-modificación-escritura
// atómica sobre un documento.
func (s *Store) Update(_ context.Context, collection, id string, fn realtime.UpdateFunc) error {
	s.mu.Lock()
	var cur json.RawMessage
	if doc, ok := s.data[collection][id]; ok {
		cur = doc
	}
	next, err := fn(cur)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, realtime.ErrAbort) {
			return nil
		}
		return err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("memstore: serializar update: %w", err)
	}
	s.putLocked(collection, id, raw)
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.Publish(collection, snap)
	return nil
}

// Close cancela todas las suscripciones. Las operaciones posteriores sobre
// los datos siguen funcionando pero ya no notifican a nadie.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.hub.Close()
	return nil
}

func (s *Store) putLocked(collection, id string, raw json.RawMessage) {
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]json.RawMessage)
	}
	s.data[collection][id] = raw
}

func (s *Store) snapshotLocked(collection string) realtime.Snapshot {
	src := s.data[collection]
	snap := make(realtime.Snapshot, len(src))
	for id, doc := range src {
		cp := make(json.RawMessage, len(doc))
		copy(cp, doc)
		snap[id] = cp
	}
	return snap
}
