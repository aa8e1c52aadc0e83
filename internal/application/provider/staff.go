package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/domain"
	"github.com/tu-usuario/commerce-admin/internal/domain/entity"
	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
	"github.com/tu-usuario/commerce-admin/pkg/logger"
)

// Staff espeja la colección /staff. Datos de referencia puros: sin relación
// con órdenes ni clientes, y las permissions son etiquetas sin enforcement.
type Staff struct {
	store realtime.Store
	log   *logger.Logger

	mu      sync.RWMutex
	items   []entity.StaffMember
	loading bool
	unsub   realtime.Unsubscribe
}

// NewStaff construye el provider y arranca la suscripción.
func NewStaff(store realtime.Store, log *logger.Logger) (*Staff, error) {
	if store == nil {
		return nil, domain.ErrStoreNotInitialized
	}
	s := &Staff{store: store, log: log, loading: true}
	unsub, err := store.Subscribe(CollStaff, s.onSnapshot, s.onSubscribeError)
	if err != nil {
		return nil, fmt.Errorf("suscribir a %s: %w", CollStaff, err)
	}
	s.unsub = unsub
	return s, nil
}

func (s *Staff) onSnapshot(snap realtime.Snapshot) {
	items := make([]entity.StaffMember, 0, len(snap))
	for id, raw := range snap {
		var m entity.StaffMember
		if err := json.Unmarshal(raw, &m); err != nil {
			s.log.Error().Err(err).Str("id", id).Msg("documento de staff ilegible, se omite")
			continue
		}
		m.ID = id
		items = append(items, m)
	}
	s.mu.Lock()
	s.items = items
	s.loading = false
	s.mu.Unlock()
}

func (s *Staff) onSubscribeError(err error) {
	s.log.Error().Err(err).Msg("suscripción a staff falló")
	s.mu.Lock()
	s.items = nil
	s.loading = false
	s.mu.Unlock()
}

// List devuelve una copia de la lista actual.
func (s *Staff) List() []entity.StaffMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.StaffMember, len(s.items))
	copy(out, s.items)
	return out
}

// Loading indica si aún no llegó el primer snapshot.
func (s *Staff) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// GetByID busca en la lista en memoria.
func (s *Staff) GetByID(id string) (entity.StaffMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.items {
		if m.ID == id {
			return m, true
		}
	}
	return entity.StaffMember{}, false
}

// Add estampa solo createdAt (el alta de staff no lleva updatedAt).
func (s *Staff) Add(ctx context.Context, in dto.StaffForm) (string, error) {
	id := s.store.PushKey(CollStaff)
	m := entity.StaffMember{
		ID:          id,
		Name:        in.Name,
		Email:       in.Email,
		Role:        in.Role,
		Department:  in.Department,
		Status:      in.Status,
		Permissions: in.Permissions,
		Avatar:      in.Avatar,
		Phone:       in.Phone,
		CreatedAt:   nowMillis(),
	}
	if err := s.store.Write(ctx, CollStaff, id, m); err != nil {
		s.log.Error().Err(err).Msg("crear staff falló")
		return "", err
	}
	return id, nil
}

// Update parchea el formulario completo más updatedAt refrescado.
func (s *Staff) Update(ctx context.Context, id string, in dto.StaffForm) error {
	fields := map[string]any{
		"name":        in.Name,
		"email":       in.Email,
		"role":        in.Role,
		"department":  in.Department,
		"status":      in.Status,
		"permissions": in.Permissions,
		"avatar":      in.Avatar,
		"phone":       in.Phone,
		"updatedAt":   nowMillis(),
	}
	if err := s.store.Patch(ctx, CollStaff, id, fields); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("actualizar staff falló")
		return err
	}
	return nil
}

// Delete elimina el registro del store.
func (s *Staff) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, CollStaff, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("eliminar staff falló")
		return err
	}
	return nil
}

// Close cancela la suscripción.
func (s *Staff) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}
