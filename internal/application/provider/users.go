package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/domain"
	"github.com/tu-usuario/commerce-admin/internal/domain/entity"
	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
	"github.com/tu-usuario/commerce-admin/pkg/logger"
)

// Users espeja la colección /users (clientes).
//
// Los contadores orders/totalSpent de cada cliente los mantiene el provider
// de órdenes con parches laterales; este provider solo los inicializa a cero
// en el alta y los expone tal cual llegan del store.
type Users struct {
	store realtime.Store
	log   *logger.Logger

	mu      sync.RWMutex
	items   []entity.User
	loading bool
	unsub   realtime.Unsubscribe
}

// NewUsers construye el provider y arranca la suscripción.
func NewUsers(store realtime.Store, log *logger.Logger) (*Users, error) {
	if store == nil {
		return nil, domain.ErrStoreNotInitialized
	}
	u := &Users{store: store, log: log, loading: true}
	unsub, err := store.Subscribe(CollUsers, u.onSnapshot, u.onSubscribeError)
	if err != nil {
		return nil, fmt.Errorf("suscribir a %s: %w", CollUsers, err)
	}
	u.unsub = unsub
	return u, nil
}

func (u *Users) onSnapshot(snap realtime.Snapshot) {
	items := make([]entity.User, 0, len(snap))
	for id, raw := range snap {
		var usr entity.User
		if err := json.Unmarshal(raw, &usr); err != nil {
			u.log.Error().Err(err).Str("id", id).Msg("documento de cliente ilegible, se omite")
			continue
		}
		usr.ID = id
		items = append(items, usr)
	}
	u.mu.Lock()
	u.items = items
	u.loading = false
	u.mu.Unlock()
}

func (u *Users) onSubscribeError(err error) {
	u.log.Error().Err(err).Msg("suscripción a users falló")
	u.mu.Lock()
	u.items = nil
	u.loading = false
	u.mu.Unlock()
}

// List devuelve una copia de la lista actual. El orden no es contractual:
// es el orden de iteración del snapshot del store.
func (u *Users) List() []entity.User {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]entity.User, len(u.items))
	copy(out, u.items)
	return out
}

// Loading indica si aún no llegó el primer snapshot.
func (u *Users) Loading() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.loading
}

// GetByID busca en la lista en memoria.
func (u *Users) GetByID(id string) (entity.User, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, usr := range u.items {
		if usr.ID == id {
			return usr, true
		}
	}
	return entity.User{}, false
}

// Add crea el cliente con los contadores en cero.
func (u *Users) Add(ctx context.Context, in dto.UserForm) (string, error) {
	id := u.store.PushKey(CollUsers)
	usr := entity.User{
		ID:         id,
		Name:       in.Name,
		Email:      in.Email,
		Status:     in.Status,
		Avatar:     in.Avatar,
		Phone:      in.Phone,
		Address:    in.Address,
		CreatedAt:  nowMillis(),
		Orders:     0,
		TotalSpent: decimal.Zero,
	}
	if err := u.store.Write(ctx, CollUsers, id, usr); err != nil {
		u.log.Error().Err(err).Msg("crear cliente falló")
		return "", err
	}
	return id, nil
}

// Update parchea solo los campos del formulario; los contadores quedan
// intactos. No verifica existencia previa del registro.
func (u *Users) Update(ctx context.Context, id string, in dto.UserForm) error {
	fields := map[string]any{
		"name":    in.Name,
		"email":   in.Email,
		"status":  in.Status,
		"avatar":  in.Avatar,
		"phone":   in.Phone,
		"address": in.Address,
	}
	if err := u.store.Patch(ctx, CollUsers, id, fields); err != nil {
		u.log.Error().Err(err).Str("id", id).Msg("actualizar cliente falló")
		return err
	}
	return nil
}

// Delete elimina el registro. Las órdenes del cliente quedan huérfanas: la
// referencia userId de una orden es débil y no se limpia en cascada.
func (u *Users) Delete(ctx context.Context, id string) error {
	if err := u.store.Delete(ctx, CollUsers, id); err != nil {
		u.log.Error().Err(err).Str("id", id).Msg("eliminar cliente falló")
		return err
	}
	return nil
}

// Close cancela la suscripción.
func (u *Users) Close() {
	if u.unsub != nil {
		u.unsub()
	}
}
