package ids

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator_Generate(t *testing.T) {
	gen := UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, a, b)
}

func TestSequenceGenerator_Generate(t *testing.T) {
	gen := NewSequenceGenerator("ch")

	assert.Equal(t, "ch-1", gen.Generate())
	assert.Equal(t, "ch-2", gen.Generate())
	assert.Equal(t, "ch-3", gen.Generate())
}

func TestSequenceGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequenceGenerator("id")
	const workers = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			v := gen.Generate()
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
}

func TestFixedGenerator_Generate(t *testing.T) {
	gen := NewFixedGenerator("run-1", "run-2")

	assert.Equal(t, "run-1", gen.Generate())
	assert.Equal(t, "run-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
