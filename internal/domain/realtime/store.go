// Package realtime define el contrato del store de documentos en tiempo real
// sobre el que se montan las colecciones del panel.
//
// El store se direcciona por (colección, id) — los únicos paths del sistema
// son /products/{id}, /users/{id}, /staff/{id}, /orders/{id} y
// /accounts/{id}. Cada suscripción entrega el snapshot COMPLETO de la
// colección en cada cambio (modelo snapshot-replace, no diffs), incluidos
// los cambios escritos por el propio suscriptor: no hay supresión de eco
// local. Entre escritores concurrentes solo se asume un orden global
// eventual por path; el diseño no depende de orden entre clientes.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrAbort lo devuelve un UpdateFunc para cancelar un Update sin escribir
// nada y sin que Update reporte error. Se usa, por ejemplo, cuando el
// documento objetivo ya no existe y el ajuste debe omitirse.
var ErrAbort = errors.New("realtime: update abortado")

// Snapshot es el valor completo de una colección: documento crudo por id.
// Cada entrega de una suscripción reemplaza por completo a la anterior.
type Snapshot map[string]json.RawMessage

// Unsubscribe cancela una suscripción activa. Idempotente.
type Unsubscribe func()

// UpdateFunc recibe el documento actual (nil si no existe) y devuelve el
// documento siguiente. Se ejecuta bajo la exclusión que garantice el backend.
type UpdateFunc func(current json.RawMessage) (next any, err error)

// Store es el binding al store de documentos en tiempo real.
//
// Write/Patch/Delete re-disparan todas las suscripciones activas sobre la
// colección afectada, incluida la del propio llamador. Patch sobre un id
// inexistente crea el documento con solo los campos parcheados: es la
// semántica normal de patch del store, heredada, no una característica
// diseñada.
type Store interface {
	// Subscribe entrega el snapshot actual de la colección de inmediato y
	// luego en cada cambio. onError recibe fallos de la suscripción misma
	// (p. ej. permiso denegado); tras un onError no llegan más snapshots.
	Subscribe(collection string, onData func(Snapshot), onError func(error)) (Unsubscribe, error)

	// Get es una lectura one-shot. Devuelve (nil, nil) si el documento no existe.
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)

	// GetAll es la lectura one-shot de la colección completa: el mismo valor
	// que entregaría una suscripción en ese instante, sin quedar suscrito.
	GetAll(ctx context.Context, collection string) (Snapshot, error)

	// Write reemplaza el documento completo en collection/id.
	Write(ctx context.Context, collection, id string, doc any) error

	// Patch fusiona solo los campos dados sobre el documento existente.
	Patch(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete elimina el documento. Borrar un id inexistente no es error.
	Delete(ctx context.Context, collection, id string) error

	// PushKey genera un id nuevo para la colección sin escribir nada.
	PushKey(collection string) string

	// Update ejecuta fn como lectura-modificación-escritura atómica sobre un
	// documento. Es la primitiva que corrige la carrera del patrón
	// leer-luego-parchear: dos Update concurrentes sobre el mismo id se
	// serializan.
	Update(ctx context.Context, collection, id string, fn UpdateFunc) error

	// Close cierra el store y cancela todas las suscripciones.
	Close() error
}
