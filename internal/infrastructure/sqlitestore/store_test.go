package sqlitestore_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/commerce-admin/internal/domain/realtime"
	"github.com/tu-usuario/commerce-admin/internal/infrastructure/sqlitestore"
)

const testCollection = "widgets"

func openTestStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	s, err := sqlitestore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// Round-trip básico: write, get, patch, delete.
func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, testCollection, "a", map[string]any{"name": "uno", "count": 1}))

	raw, err := s.Get(ctx, testCollection, "a")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "uno", doc["name"])

	require.NoError(t, s.Patch(ctx, testCollection, "a", map[string]any{"count": 2}))
	raw, err = s.Get(ctx, testCollection, "a")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "uno", doc["name"], "el patch conserva los campos no tocados")
	assert.Equal(t, float64(2), doc["count"])

	require.NoError(t, s.Delete(ctx, testCollection, "a"))
	raw, err = s.Get(ctx, testCollection, "a")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

// Los documentos sobreviven a cerrar y reabrir la base.
func TestStore_PersisteEntreAperturas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := sqlitestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), testCollection, "a", map[string]any{"name": "uno"}))
	require.NoError(t, s.Close())

	s2, err := sqlitestore.Open(path)
	require.NoError(t, err)
	defer s2.Close()

	raw, err := s2.Get(context.Background(), testCollection, "a")
	require.NoError(t, err)
	require.NotNil(t, raw, "el documento debe persistir entre aperturas")
}

// Patch sobre un id inexistente crea el documento parcial (misma semántica
// que los otros backends).
func TestStore_PatchCreaDocumento(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Patch(context.Background(), testCollection, "nuevo", map[string]any{"count": 3}))

	raw, err := s.Get(context.Background(), testCollection, "nuevo")
	require.NoError(t, err)
	require.NotNil(t, raw)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, float64(3), doc["count"])
}

// Update serializa los read-modify-write concurrentes.
func TestStore_UpdateConcurrenteNoPierdeIncrementos(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, testCollection, "contador", map[string]any{"count": 0}))

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			err := s.Update(ctx, testCollection, "contador", func(current json.RawMessage) (any, error) {
				var doc map[string]any
				if err := json.Unmarshal(current, &doc); err != nil {
					return nil, err
				}
				doc["count"] = doc["count"].(float64) + 1
				return doc, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	raw, err := s.Get(ctx, testCollection, "contador")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, float64(n), doc["count"])
}

// La suscripción entrega el contenido persistido como snapshot inicial y los
// cambios posteriores.
func TestStore_SubscribeEntregaSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, testCollection, "previo", map[string]any{"name": "ya estaba"}))

	var mu sync.Mutex
	var last realtime.Snapshot
	unsub, err := s.Subscribe(testCollection, func(snap realtime.Snapshot) {
		mu.Lock()
		last = snap
		mu.Unlock()
	}, nil)
	require.NoError(t, err)
	defer unsub()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := last["previo"]
		return ok
	}, 2*time.Second, 5*time.Millisecond, "el snapshot inicial trae lo ya persistido")

	require.NoError(t, s.Write(ctx, testCollection, "nuevo", map[string]any{"name": "recién"}))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := last["nuevo"]
		return ok
	}, 2*time.Second, 5*time.Millisecond)
}
