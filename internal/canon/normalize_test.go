package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		form Form
		a, b any
		want bool
	}{
		{"text exact", Text, "Hello", "Hello", true},
		{"text case sensitive", Text, "hello", "Hello", false},
		{"enum upper-cased", Enum, "usd", "USD", true},
		{"enum trimmed", Enum, " pl ", "PL", true},
		{"number from string", Number, "10", 10.0, true},
		{"number int vs float", Number, 3, 3.0, true},
		{"number differs", Number, "10.5", 10.0, false},
		{"integer from float", Integer, 5, 5.0, true},
		{"bool from string", Bool, "true", true, true},
		{"bool differs", Bool, false, true, false},
		{"set ignores order", Set, []string{"b", "a"}, []any{"a", "b"}, true},
		{"set ignores duplicates", Set, []string{"a", "a"}, []string{"a"}, true},
		{"enum set", EnumSet, []string{"pl", "de"}, []any{"DE", "PL"}, true},
		{"list keeps order", List, []string{"b", "a"}, []string{"a", "b"}, false},
		{"object canonical", Object, map[string]any{"a": 1, "b": "x"}, map[string]any{"b": "x", "a": 1.0}, true},
		{"nil vs value", Text, nil, "x", false},
		{"nil vs nil", Text, nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.form, tt.a, tt.b))
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize(Number, "abc")
	assert.Error(t, err)

	_, err = Normalize(Integer, 2.5)
	assert.Error(t, err)

	_, err = Normalize(Bool, "maybe")
	assert.Error(t, err)

	_, err = Normalize(Set, "not-a-list")
	assert.Error(t, err)
}

func TestNormalize_SetIsSorted(t *testing.T) {
	got, err := Normalize(Set, []string{"c", "a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := []string{"b", "a"}
	_, err := Normalize(Set, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, in)
}
