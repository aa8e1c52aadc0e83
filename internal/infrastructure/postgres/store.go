// Package postgres implementa el store realtime sobre PostgreSQL: los
// documentos viven en una tabla JSONB única y las notificaciones de
// suscripción se reparten en proceso tras cada mutación. Entre procesos
// solo rige el orden que impone la base (consistencia eventual por path);
// el diseño no depende de orden entre clientes.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/fanout"
)

var _ realtime.Store = (*Store)(nil)

// Store guarda cada documento como una fila (collection, id, doc JSONB).
type Store struct {
	pool *pgxpool.Pool
	hub  *fanout.Hub
}

// NewStore inicializa el esquema y construye el store sobre el pool.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	schema := `CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		doc        JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (collection, id)
	)`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("crear esquema documents: %w", err)
	}
	return &Store{pool: pool, hub: fanout.NewHub()}, nil
}

// Subscribe carga el snapshot actual y registra al suscriptor en el hub.
func (s *Store) Subscribe(collection string, onData func(realtime.Snapshot), onError func(error)) (realtime.Unsubscribe, error) {
	snap, err := s.GetAll(context.Background(), collection)
	if err != nil {
		return nil, err
	}
	return s.hub.Subscribe(collection, snap, onData, onError), nil
}

// Get lectura one-shot; (nil, nil) si no existe.
func (s *Store) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`, collection, id,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(doc), nil
}

// GetAll lectura one-shot de la colección completa.
func (s *Store) GetAll(ctx context.Context, collection string) (realtime.Snapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, doc FROM documents WHERE collection = $1`, collection)
	if err != nil {
		return nil, fmt.Errorf("leer colección %s: %w", collection, err)
	}
	defer rows.Close()

	snap := make(realtime.Snapshot)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("escanear fila: %w", err)
		}
		snap[id] = json.RawMessage(doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar colección %s: %w", collection, err)
	}
	return snap, nil
}

// Write reemplaza el documento completo y notifica.
func (s *Store) Write(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializar documento: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, doc, updated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		collection, id, raw)
	if err != nil {
		return fmt.Errorf("escribir %s/%s: %w", collection, id, err)
	}
	s.publish(collection)
	return nil
}

// Patch fusiona los campos con el operador || de JSONB. El upsert reproduce
// la semántica heredada: un id inexistente se crea solo con esos campos.
func (s *Store) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("serializar patch: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, doc, updated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (collection, id) DO UPDATE SET doc = documents.doc || EXCLUDED.doc, updated_at = now()`,
		collection, id, raw)
	if err != nil {
		return fmt.Errorf("parchear %s/%s: %w", collection, id, err)
	}
	s.publish(collection)
	return nil
}

// Delete elimina el documento; borrar un id inexistente no es error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("eliminar %s/%s: %w", collection, id, err)
	}
	s.publish(collection)
	return nil
}

// PushKey genera un id nuevo sin escribir nada.
func (s *Store) PushKey(string) string {
	return uuid.New().String()
}

// Update ejecuta fn dentro de una transacción con la fila bloqueada
// (SELECT ... FOR UPDATE): dos Update concurrentes sobre el mismo documento
// se serializan en la base, también entre procesos.
func (s *Store) Update(ctx context.Context, collection, id string, fn realtime.UpdateFunc) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur json.RawMessage
	var doc []byte
	err = tx.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
		collection, id,
	).Scan(&doc)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		cur = nil
	case err != nil:
		return fmt.Errorf("leer %s/%s: %w", collection, id, err)
	default:
		cur = json.RawMessage(doc)
	}

	next, err := fn(cur)
	if err != nil {
		if errors.Is(err, realtime.ErrAbort) {
			return nil
		}
		return err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("serializar update: %w", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO documents (collection, id, doc, updated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		collection, id, raw)
	if err != nil {
		return fmt.Errorf("actualizar %s/%s: %w", collection, id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.publish(collection)
	return nil
}

// Close cancela las suscripciones. El pool lo cierra quien lo creó.
func (s *Store) Close() error {
	s.hub.Close()
	return nil
}

// publish recarga la colección y la reparte a los suscriptores del proceso.
func (s *Store) publish(collection string) {
	snap, err := s.GetAll(context.Background(), collection)
	if err != nil {
		s.hub.Fail(collection, err)
		return
	}
	s.hub.Publish(collection, snap)
}
