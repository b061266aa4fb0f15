package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/configurator/internal/engine"
	"github.com/roach88/configurator/internal/remote"
	"github.com/roach88/configurator/internal/testutil"
)

func TestStore_CreateAndList(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "channels", remote.Payload{
		Identifier: "us",
		Fields:     map[string]any{"currencyCode": "USD", "isActive": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "us", created.Identifier)
	assert.Equal(t, map[string]any{"currencyCode": "USD", "isActive": true}, created.Fields)

	_, err = s.Create(ctx, "channels", remote.Payload{Identifier: "eu"})
	require.NoError(t, err)

	listed, err := s.List(ctx, "channels")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "us", listed[0].Identifier)
	assert.Equal(t, "eu", listed[1].Identifier)
	assert.Equal(t, map[string]any{}, listed[1].Fields)
}

func TestStore_ListUnknownKindIsEmpty(t *testing.T) {
	s := createTestStore(t)

	listed, err := s.List(context.Background(), "channels")
	require.NoError(t, err)
	assert.NotNil(t, listed)
	assert.Empty(t, listed)
}

func TestStore_CreateDuplicateIdentifier(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "channels", remote.Payload{Identifier: "us"})
	require.NoError(t, err)

	_, err = s.Create(ctx, "channels", remote.Payload{Identifier: "us"})
	require.Error(t, err)
	re, ok := remote.AsError(err)
	require.True(t, ok, "expected *remote.Error, got %T", err)
	assert.Equal(t, remote.CodeUnique, re.Code)

	_, err = s.Create(ctx, "warehouses", remote.Payload{Identifier: "us"})
	assert.NoError(t, err, "identifiers are unique per kind only")
}

func TestStore_CreateRejectsUnencodableFields(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Create(context.Background(), "channels", remote.Payload{
		Identifier: "us",
		Fields:     map[string]any{"bad": struct{}{}},
	})
	re, ok := remote.AsError(err)
	require.True(t, ok, "expected *remote.Error, got %T", err)
	assert.Equal(t, remote.CodeInvalid, re.Code)
}

func TestStore_UpdateMerges(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "channels", remote.Payload{
		Identifier: "us",
		Fields:     map[string]any{"name": "US", "isActive": true},
	})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "channels", created.ID, remote.Payload{
		Identifier: "us",
		Fields:     map[string]any{"name": "United States"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "United States", "isActive": true}, updated.Fields)

	listed, err := s.List(ctx, "channels")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, updated.Fields, listed[0].Fields)
}

func TestStore_UpdateUnknownID(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Update(context.Background(), "channels", "missing", remote.Payload{})
	re, ok := remote.AsError(err)
	require.True(t, ok, "expected *remote.Error, got %T", err)
	assert.Equal(t, remote.CodeNotFound, re.Code)
}

func TestStore_UpdateWrongKind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "channels", remote.Payload{Identifier: "us"})
	require.NoError(t, err)

	_, err = s.Update(ctx, "warehouses", created.ID, remote.Payload{})
	re, ok := remote.AsError(err)
	require.True(t, ok)
	assert.Equal(t, remote.CodeNotFound, re.Code)
}

func TestStore_Kinds(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, kind := range []string{"warehouses", "channels"} {
		_, err := s.Create(ctx, kind, remote.Payload{Identifier: "default"})
		require.NoError(t, err)
	}

	kinds, err := s.Kinds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"channels", "warehouses"}, kinds)
}

func TestStore_UUIDv7IDsByDefault(t *testing.T) {
	s, err := Open(t.TempDir() + "/sandbox.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	created, err := s.Create(context.Background(), "channels", remote.Payload{Identifier: "us"})
	require.NoError(t, err)
	assert.Len(t, created.ID, 36)
}

// The store is a full remote: a catalog reconciled against it a second
// time, after a process restart, changes nothing.
func TestStore_ReconcileIsIdempotentAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/sandbox.db"
	doc := testutil.ParseDocumentFile(t, "../engine/testdata/catalog.yaml")

	first, err := Open(path)
	require.NoError(t, err)
	report, err := engine.New(first, engine.WithLogger(testutil.DiscardLogger())).Run(context.Background(), doc)
	require.NoError(t, err)
	require.False(t, report.HasFailures(), "failures: %v", report.Failed())
	assert.Equal(t, report.Summary().Total, report.Summary().Created)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	report, err = engine.New(second, engine.WithLogger(testutil.DiscardLogger())).Run(context.Background(), doc)
	require.NoError(t, err)
	for _, o := range report.Outcomes() {
		assert.Equal(t, engine.StatusUnchanged, o.Status, "%s %q: %+v", o.Section, o.Identifier, o.Changes)
	}
}
