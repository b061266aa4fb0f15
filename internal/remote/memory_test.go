package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/configurator/internal/ids"
)

func TestMemory_CreateAndList(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	created, err := m.Create(ctx, "channels", Payload{Identifier: "us", Fields: map[string]any{"currencyCode": "USD"}})
	require.NoError(t, err)
	assert.Equal(t, "channels-1", created.ID)

	_, err = m.Create(ctx, "channels", Payload{Identifier: "eu"})
	require.NoError(t, err)

	list, err := m.List(ctx, "channels")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "us", list[0].Identifier)
	assert.Equal(t, "eu", list[1].Identifier)
	assert.Equal(t, "channels-2", list[1].ID)

	assert.Equal(t, 1, m.Calls("list", "channels"))
	assert.Equal(t, 2, m.Calls("create", "channels"))
}

func TestMemory_CreateDuplicateIdentifier(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Create(ctx, "channels", Payload{Identifier: "us"})
	require.NoError(t, err)

	_, err = m.Create(ctx, "channels", Payload{Identifier: "us"})
	require.Error(t, err)
	re, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnique, re.Code)
}

func TestMemory_UpdateMerges(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	seeded := m.Seed("channels", Entity{Identifier: "us", Fields: map[string]any{"name": "US", "isActive": true}})

	updated, err := m.Update(ctx, "channels", seeded[0].ID, Payload{Identifier: "us", Fields: map[string]any{"name": "United States"}})
	require.NoError(t, err)

	assert.Equal(t, "United States", updated.Fields["name"])
	assert.Equal(t, true, updated.Fields["isActive"])
}

func TestMemory_UpdateUnknownID(t *testing.T) {
	_, err := NewMemory().Update(context.Background(), "channels", "nope", Payload{})
	re, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, re.Code)
}

func TestMemory_FailOn(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("boom")
	m.FailOn(OpCreate, "channels", "bad", boom)

	_, err := m.Create(ctx, "channels", Payload{Identifier: "bad"})
	assert.ErrorIs(t, err, boom)

	_, err = m.Create(ctx, "channels", Payload{Identifier: "good"})
	assert.NoError(t, err)
}

func TestMemory_FailList(t *testing.T) {
	m := NewMemory()
	m.FailList("channels", errors.New("unavailable"))

	_, err := m.List(context.Background(), "channels")
	assert.EqualError(t, err, "unavailable")
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	created, err := m.Create(ctx, "channels", Payload{Identifier: "us", Fields: map[string]any{"name": "US"}})
	require.NoError(t, err)

	created.Fields["name"] = "mutated"

	stored, ok := m.Get("channels", "us")
	require.True(t, ok)
	assert.Equal(t, "US", stored.Fields["name"])
}

func TestMemory_CustomIDs(t *testing.T) {
	m := NewMemoryWithIDs(ids.NewFixedGenerator("id-a"))
	e, err := m.Create(context.Background(), "channels", Payload{Identifier: "us"})
	require.NoError(t, err)
	assert.Equal(t, "id-a", e.ID)
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().List(ctx, "channels")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "bad", (&Error{Message: "bad"}).Error())
	assert.Equal(t, "bad (code=INVALID)", (&Error{Message: "bad", Code: CodeInvalid}).Error())
	assert.Equal(t, "bad (code=INVALID, field=slug)", (&Error{Message: "bad", Code: CodeInvalid, Field: "slug"}).Error())
}
