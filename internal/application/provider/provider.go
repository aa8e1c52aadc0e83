// Package provider contiene los servicios de colección del panel: cada uno
// mantiene una lista en memoria espejada del store realtime por suscripción
// y expone las mutaciones que escriben de vuelta al store.
//
// Los cuatro providers comparten el mismo patrón deliberadamente repetido:
// suscripción snapshot-replace, flag de carga, alta con timestamps, update
// por patch y delete directo. La lista local NUNCA se modifica desde las
// mutaciones: solo cambia cuando la suscripción entrega el siguiente
// snapshot (el alta no inserta optimistamente).
//
// Política de errores: todo fallo de una operación del store se registra en
// el log (el equivalente del toast del panel) y se propaga al llamador. Sin
// reintentos y sin rollback de efectos parciales.
package provider

import "time"

// Colecciones del store realtime.
const (
	CollProducts = "products"
	CollUsers    = "users"
	CollStaff    = "staff"
	CollOrders   = "orders"
)

// nowMillis devuelve el timestamp con el que se estampan los documentos.
// Variable para congelar el reloj en tests.
var nowMillis = func() int64 { return time.Now().UnixMilli() }
