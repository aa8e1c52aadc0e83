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

// Products espeja la colección /products.
//
// Nota: el stock NO se descuenta desde el flujo de órdenes; solo cambia por
// edición manual del formulario. Limitación heredada, ver DESIGN.md.
type Products struct {
	store realtime.Store
	log   *logger.Logger

	mu      sync.RWMutex
	items   []entity.Product
	loading bool
	unsub   realtime.Unsubscribe
}

// NewProducts construye el provider y arranca la suscripción.
func NewProducts(store realtime.Store, log *logger.Logger) (*Products, error) {
	if store == nil {
		return nil, domain.ErrStoreNotInitialized
	}
	p := &Products{store: store, log: log, loading: true}
	unsub, err := store.Subscribe(CollProducts, p.onSnapshot, p.onSubscribeError)
	if err != nil {
		return nil, fmt.Errorf("suscribir a %s: %w", CollProducts, err)
	}
	p.unsub = unsub
	return p, nil
}

// onSnapshot reemplaza la lista completa con cada entrega de la suscripción.
func (p *Products) onSnapshot(snap realtime.Snapshot) {
	items := make([]entity.Product, 0, len(snap))
	for id, raw := range snap {
		var prod entity.Product
		if err := json.Unmarshal(raw, &prod); err != nil {
			p.log.Error().Err(err).Str("id", id).Msg("documento de producto ilegible, se omite")
			continue
		}
		prod.ID = id
		items = append(items, prod)
	}
	p.mu.Lock()
	p.items = items
	p.loading = false
	p.mu.Unlock()
}

// onSubscribeError: la suscripción murió. Lista vacía, carga terminada, sin
// reintento ni backoff.
func (p *Products) onSubscribeError(err error) {
	p.log.Error().Err(err).Msg("suscripción a products falló")
	p.mu.Lock()
	p.items = nil
	p.loading = false
	p.mu.Unlock()
}

// List devuelve una copia de la lista actual.
func (p *Products) List() []entity.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]entity.Product, len(p.items))
	copy(out, p.items)
	return out
}

// Loading indica si aún no llegó el primer snapshot.
func (p *Products) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// GetByID busca en la lista en memoria.
func (p *Products) GetByID(id string) (entity.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, prod := range p.items {
		if prod.ID == id {
			return prod, true
		}
	}
	return entity.Product{}, false
}

// Add estampa createdAt/updatedAt y escribe el registro completo. El
// producto aparece en List solo cuando vuelve el snapshot de la suscripción.
func (p *Products) Add(ctx context.Context, in dto.ProductForm) (string, error) {
	now := nowMillis()
	id := p.store.PushKey(CollProducts)
	prod := entity.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.store.Write(ctx, CollProducts, id, prod); err != nil {
		p.log.Error().Err(err).Msg("crear producto falló")
		return "", err
	}
	return id, nil
}

// Update parchea los campos del formulario más updatedAt. No verifica que
// el registro exista: un patch a un id inexistente lo crea con la semántica
// normal de patch del store (peculiaridad heredada).
func (p *Products) Update(ctx context.Context, id string, in dto.ProductForm) error {
	fields := map[string]any{
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"category":    in.Category,
		"stock":       in.Stock,
		"image":       in.Image,
		"updatedAt":   nowMillis(),
	}
	if err := p.store.Patch(ctx, CollProducts, id, fields); err != nil {
		p.log.Error().Err(err).Str("id", id).Msg("actualizar producto falló")
		return err
	}
	return nil
}

// Delete elimina el registro del store.
func (p *Products) Delete(ctx context.Context, id string) error {
	if err := p.store.Delete(ctx, CollProducts, id); err != nil {
		p.log.Error().Err(err).Str("id", id).Msg("eliminar producto falló")
		return err
	}
	return nil
}

// Close cancela la suscripción. Las escrituras en vuelo no se cancelan: si
// terminan después, su resultado se descarta en silencio.
func (p *Products) Close() {
	if p.unsub != nil {
		p.unsub()
	}
}
