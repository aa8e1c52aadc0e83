// Package sqlitestore implementa el store realtime sobre SQLite (driver
// puro Go). Backend pensado para despliegues de un solo nodo: los
// documentos persisten en una tabla única y las notificaciones de
// suscripción se reparten en proceso tras cada mutación.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/fanout"

	_ "modernc.org/sqlite" // driver sqlite (puro Go)
)

var _ realtime.Store = (*Store)(nil)

// Store guarda cada documento como una fila (collection, id, doc).
type Store struct {
	db  *sql.DB
	hub *fanout.Hub

	// updateMu serializa Update: SQLite no ofrece SELECT FOR UPDATE y la
	// atomicidad del read-modify-write se garantiza aquí.
	updateMu sync.Mutex
}

// Open abre (o crea) la base en path e inicializa el esquema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: abrir base: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: ping: %w", err)
	}
	schema := `CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		doc        TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, id)
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: crear esquema: %w", err)
	}
	return &Store{db: db, hub: fanout.NewHub()}, nil
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
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: leer %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(doc), nil
}

// GetAll lectura one-shot de la colección completa.
func (s *Store) GetAll(ctx context.Context, collection string) (realtime.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: leer colección %s: %w", collection, err)
	}
	defer rows.Close()

	snap := make(realtime.Snapshot)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("sqlitestore: escanear fila: %w", err)
		}
		snap[id] = json.RawMessage(doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: iterar colección %s: %w", collection, err)
	}
	return snap, nil
}

// Write reemplaza el documento completo y notifica.
func (s *Store) Write(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sqlitestore: serializar documento: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, doc, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (collection, id) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("sqlitestore: escribir %s/%s: %w", collection, id, err)
	}
	s.publish(collection)
	return nil
}

// Patch fusiona los campos sobre el documento; un id inexistente se crea
// solo con esos campos (semántica heredada del store).
func (s *Store) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	cur, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	merged := make(map[string]any)
	if cur != nil {
		if err := json.Unmarshal(cur, &merged); err != nil {
			return fmt.Errorf("sqlitestore: documento corrupto en %s/%s: %w", collection, id, err)
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("sqlitestore: serializar patch: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, doc, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (collection, id) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("sqlitestore: parchear %s/%s: %w", collection, id, err)
	}
	s.publish(collection)
	return nil
}

// Delete elimina el documento; borrar un id inexistente no es error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("sqlitestore: eliminar %s/%s: %w", collection, id, err)
	}
	s.publish(collection)
	return nil
}

// PushKey genera un id nuevo sin escribir nada.
func (s *Store) PushKey(string) string {
	return uuid.New().String()
}

// Update lectura-modificación-escritura atómica serializada por updateMu.
func (s *Store) Update(ctx context.Context, collection, id string, fn realtime.UpdateFunc) error {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	cur, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
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
		return fmt.Errorf("sqlitestore: serializar update: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, doc, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (collection, id) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("sqlitestore: actualizar %s/%s: %w", collection, id, err)
	}
	s.publish(collection)
	return nil
}

// Close cancela las suscripciones y cierra la base.
func (s *Store) Close() error {
	s.hub.Close()
	return s.db.Close()
}

// publish recarga la colección y la reparte. Si la recarga falla, las
// suscripciones de esa colección reciben el error y terminan (sin reintento
// ni backoff, igual que el resto del manejo de fallos de suscripción).
func (s *Store) publish(collection string) {
	snap, err := s.GetAll(context.Background(), collection)
	if err != nil {
		s.hub.Fail(collection, err)
		return
	}
	s.hub.Publish(collection, snap)
}
