package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/commerce-admin/internal/application/dto"
	"github.com/tu-usuario/commerce-admin/internal/domain"
	"github.com/tu-usuario/commerce-admin/internal/domain/entity"
	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
	"github.com/tu-usuario/commerce-admin/pkg/logger"
)

// Orders espeja la colección /orders, ordenada por createdAt descendente, y
// contiene el actualizador de contadores desnormalizados del cliente: al
// crear o eliminar una orden parchea orders/totalSpent en el registro del
// usuario referenciado. Una actualización de estado o de campos nunca los
// toca.
//
// El actualizador tiene dos modos:
//
//   - modo legado (LegacyCounters=true): lectura one-shot del usuario y
//     patch con los valores computados. Reproduce el protocolo histórico,
//     incluida su carrera: dos creaciones concurrentes para el mismo
//     usuario pueden leer el mismo contador y perder un incremento.
//   - modo atómico (por defecto): la misma aritmética dentro de
//     Store.Update, donde el backend serializa lectura y escritura.
//
// En ambos modos, si el usuario referenciado no existe el ajuste se omite
// en silencio, y en la reversión los contadores se recortan a cero.
type Orders struct {
	store realtime.Store
	log   *logger.Logger

	// LegacyCounters activa el modo leer-luego-parchear del actualizador.
	legacyCounters bool

	mu      sync.RWMutex
	items   []entity.Order
	loading bool
	unsub   realtime.Unsubscribe
}

// OrdersOptions opciones de construcción.
type OrdersOptions struct {
	LegacyCounters bool
}

// NewOrders construye el provider y arranca la suscripción.
func NewOrders(store realtime.Store, log *logger.Logger, opts OrdersOptions) (*Orders, error) {
	if store == nil {
		return nil, domain.ErrStoreNotInitialized
	}
	o := &Orders{store: store, log: log, legacyCounters: opts.LegacyCounters, loading: true}
	unsub, err := store.Subscribe(CollOrders, o.onSnapshot, o.onSubscribeError)
	if err != nil {
		return nil, fmt.Errorf("suscribir a %s: %w", CollOrders, err)
	}
	o.unsub = unsub
	return o, nil
}

// onSnapshot reemplaza la lista completa, ordenada por createdAt descendente
// (las más nuevas primero).
func (o *Orders) onSnapshot(snap realtime.Snapshot) {
	items := make([]entity.Order, 0, len(snap))
	for id, raw := range snap {
		var ord entity.Order
		if err := json.Unmarshal(raw, &ord); err != nil {
			o.log.Error().Err(err).Str("id", id).Msg("documento de orden ilegible, se omite")
			continue
		}
		ord.ID = id
		items = append(items, ord)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	o.mu.Lock()
	o.items = items
	o.loading = false
	o.mu.Unlock()
}

func (o *Orders) onSubscribeError(err error) {
	o.log.Error().Err(err).Msg("suscripción a orders falló")
	o.mu.Lock()
	o.items = nil
	o.loading = false
	o.mu.Unlock()
}

// List devuelve una copia de la lista actual (createdAt descendente).
func (o *Orders) List() []entity.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]entity.Order, len(o.items))
	copy(out, o.items)
	return out
}

// Loading indica si aún no llegó el primer snapshot.
func (o *Orders) Loading() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.loading
}

// GetByID busca en la lista en memoria.
func (o *Orders) GetByID(id string) (entity.Order, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, ord := range o.items {
		if ord.ID == id {
			return ord, true
		}
	}
	return entity.Order{}, false
}

// Add escribe la orden y después incrementa los contadores del usuario.
// Los dos pasos no son atómicos entre sí: si el ajuste de contadores falla,
// la orden ya quedó escrita y el agregado deriva (fallo parcial documentado,
// sin rollback).
func (o *Orders) Add(ctx context.Context, in dto.OrderForm) (string, error) {
	now := nowMillis()
	id := o.store.PushKey(CollOrders)
	ord := entity.Order{
		ID:              id,
		UserID:          in.UserID,
		UserName:        in.UserName,
		UserEmail:       in.UserEmail,
		Items:           in.Items,
		Total:           in.Total,
		Status:          in.Status,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   in.PaymentStatus,
		ShippingAddress: in.ShippingAddress,
		TrackingNumber:  in.TrackingNumber,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := o.store.Write(ctx, CollOrders, id, ord); err != nil {
		o.log.Error().Err(err).Msg("crear orden falló")
		return "", err
	}
	if err := o.adjustUserTotals(ctx, in.UserID, 1, in.Total); err != nil {
		o.log.Error().Err(err).Str("userId", in.UserID).Msg("ajustar contadores del cliente falló")
		return "", err
	}
	return id, nil
}

// Update parchea solo los campos dados más updatedAt refrescado. Sin efecto
// sobre los contadores del usuario y sin verificación de existencia.
func (o *Orders) Update(ctx context.Context, id string, in dto.OrderUpdate) error {
	fields := in.Fields()
	fields["updatedAt"] = nowMillis()
	if err := o.store.Patch(ctx, CollOrders, id, fields); err != nil {
		o.log.Error().Err(err).Str("id", id).Msg("actualizar orden falló")
		return err
	}
	return nil
}

// Delete revierte los contadores del usuario y después elimina la orden. La
// orden se localiza en la lista en memoria (no con una lectura fresca) para
// obtener userId y total; si ya no está, se elimina el path igualmente sin
// tocar contadores.
func (o *Orders) Delete(ctx context.Context, id string) error {
	if ord, ok := o.GetByID(id); ok {
		if err := o.adjustUserTotals(ctx, ord.UserID, -1, ord.Total); err != nil {
			o.log.Error().Err(err).Str("userId", ord.UserID).Msg("revertir contadores del cliente falló")
			return err
		}
	}
	if err := o.store.Delete(ctx, CollOrders, id); err != nil {
		o.log.Error().Err(err).Str("id", id).Msg("eliminar orden falló")
		return err
	}
	return nil
}

// Close cancela la suscripción.
func (o *Orders) Close() {
	if o.unsub != nil {
		o.unsub()
	}
}

// ── Actualizador de contadores ────────────────────────────────────────────

// adjustUserTotals aplica delta (+1 en creación, -1 en eliminación) a los
// contadores desnormalizados del usuario. Si el usuario no existe, omite el
// ajuste sin error.
func (o *Orders) adjustUserTotals(ctx context.Context, userID string, delta int, total decimal.Decimal) error {
	if o.legacyCounters {
		return o.adjustLegacy(ctx, userID, delta, total)
	}
	return o.adjustAtomic(ctx, userID, delta, total)
}

// adjustLegacy: lectura one-shot y patch, sin compare-and-swap ni
// transacción. Es el protocolo original tal como fue construido; bajo
// creaciones concurrentes para el mismo usuario puede perder incrementos.
func (o *Orders) adjustLegacy(ctx context.Context, userID string, delta int, total decimal.Decimal) error {
	raw, err := o.store.Get(ctx, CollUsers, userID)
	if err != nil {
		return fmt.Errorf("leer usuario %s: %w", userID, err)
	}
	if raw == nil {
		return nil
	}
	orders, spent, err := counterValues(raw)
	if err != nil {
		return fmt.Errorf("contadores del usuario %s: %w", userID, err)
	}
	nextOrders, nextSpent := applyDelta(orders, spent, delta, total)
	return o.store.Patch(ctx, CollUsers, userID, map[string]any{
		"orders":     nextOrders,
		"totalSpent": nextSpent,
	})
}

// adjustAtomic: la misma aritmética dentro de Store.Update. Solo se
// reescriben los dos campos de contador sobre el documento vigente, así que
// dos ajustes concurrentes se serializan y no se pierden incrementos.
func (o *Orders) adjustAtomic(ctx context.Context, userID string, delta int, total decimal.Decimal) error {
	return o.store.Update(ctx, CollUsers, userID, func(current json.RawMessage) (any, error) {
		if current == nil {
			return nil, realtime.ErrAbort
		}
		var doc map[string]any
		if err := json.Unmarshal(current, &doc); err != nil {
			return nil, fmt.Errorf("documento del usuario %s: %w", userID, err)
		}
		orders, spent, err := counterValues(current)
		if err != nil {
			return nil, fmt.Errorf("contadores del usuario %s: %w", userID, err)
		}
		nextOrders, nextSpent := applyDelta(orders, spent, delta, total)
		doc["orders"] = nextOrders
		doc["totalSpent"] = nextSpent
		return doc, nil
	})
}

// applyDelta computa los contadores siguientes. En la reversión ambos se
// recortan a cero: eliminar más órdenes de las registradas no deja valores
// negativos.
func applyDelta(orders int, spent decimal.Decimal, delta int, total decimal.Decimal) (int, decimal.Decimal) {
	if delta > 0 {
		return orders + 1, spent.Add(total)
	}
	nextOrders := orders - 1
	if nextOrders < 0 {
		nextOrders = 0
	}
	nextSpent := spent.Sub(total)
	if nextSpent.IsNegative() {
		nextSpent = decimal.Zero
	}
	return nextOrders, nextSpent
}

// counterValues extrae orders/totalSpent del documento crudo del usuario.
// Campos ausentes cuentan como cero; totalSpent acepta número o string
// decimal (los documentos históricos usan número).
func counterValues(raw json.RawMessage) (int, decimal.Decimal, error) {
	var doc struct {
		Orders     int             `json:"orders"`
		TotalSpent decimal.Decimal `json:"totalSpent"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, decimal.Decimal{}, err
	}
	return doc.Orders, doc.TotalSpent, nil
}
