package recovery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func static(msg string) Generator {
	return func([]string) Suggestion { return Suggestion{Message: msg} }
}

func TestRegistry_SuggestCollectsAllMatches(t *testing.T) {
	r := New(0)
	require.NoError(t, r.Register(`not found`, "i", static("missing")))
	require.NoError(t, r.Register(`permission`, "i", static("perms")))
	require.NoError(t, r.Register(`timeout`, "", static("slow")))

	got := r.Suggest("Category NOT FOUND: permission denied")

	require.Len(t, got, 2)
	assert.Equal(t, "missing", got[0].Message)
	assert.Equal(t, "perms", got[1].Message)
}

func TestRegistry_SuggestFallback(t *testing.T) {
	r := New(0)
	require.NoError(t, r.Register(`not found`, "", static("missing")))

	assert.Equal(t, []Suggestion{Fallback()}, r.Suggest(""))
	assert.Equal(t, []Suggestion{Fallback()}, r.Suggest("   "))
	assert.Equal(t, []Suggestion{Fallback()}, r.Suggest("something else"))
}

func TestRegistry_SuggestUsesSubmatches(t *testing.T) {
	r := New(0)
	require.NoError(t, r.Register(`field (\w+)`, "", func(m []string) Suggestion {
		return Suggestion{Message: "fix " + m[1]}
	}))

	got := r.Suggest("invalid field slug")
	require.Len(t, got, 1)
	assert.Equal(t, "fix slug", got[0].Message)
}

func TestRegistry_SuggestDeduplicates(t *testing.T) {
	r := New(0)
	require.NoError(t, r.Register(`a`, "", static("same")))
	require.NoError(t, r.Register(`b`, "", static("same")))

	assert.Len(t, r.Suggest("ab"), 1)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := New(0)
	require.NoError(t, r.Register(`not found`, "is", static("x")))

	err := r.Register(`not found`, "si", static("y"))
	assert.ErrorIs(t, err, ErrDuplicatePattern)

	// Same pattern with different flags is a different rule.
	assert.NoError(t, r.Register(`not found`, "", static("z")))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_RegisterCeiling(t *testing.T) {
	r := New(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Register(fmt.Sprintf("p%d", i), "", static("x")))
	}

	err := r.Register("p3", "", static("x"))
	assert.ErrorIs(t, err, ErrRegistryFull)
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	r := New(0)

	assert.ErrorIs(t, r.Register("x", "g", static("x")), ErrInvalidFlags)
	assert.Error(t, r.Register("(", "", static("x")))
	assert.Error(t, r.Register("", "", static("x")))
	assert.Error(t, r.Register("x", "", nil))
	assert.Equal(t, 0, r.Len())
}

func TestDefault_ReferenceNotFound(t *testing.T) {
	got := Default().Suggest(`reference "apparel" not found in section "categories"`)

	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, `Declare "apparel" in the categories section of the document, or create it on the remote first`, got[0].Message)
	assert.Contains(t, got[1].Message, "spelled exactly")
}

func TestDefault_RemoteFailures(t *testing.T) {
	tests := []struct {
		message  string
		contains string
	}{
		{"channels with identifier \"us\" already exists (code=UNIQUE)", "already uses this identifier"},
		{"Permission denied: MANAGE_CHANNELS", "credentials"},
		{"name is required", `"name"`},
		{"Invalid currency code XYZ", "ISO 4217"},
		{"dial tcp: connection refused", "could not be reached"},
		{"429 Too Many Requests", "throttling"},
		{"inputType: inputType is required", "inputType"},
		{"context canceled", "cancelled"},
	}

	r := Default()
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := r.Suggest(tt.message)
			var messages []string
			for _, s := range got {
				messages = append(messages, s.Message)
			}
			assert.Contains(t, fmt.Sprint(messages), tt.contains)
		})
	}
}

func TestDefault_FitsCeiling(t *testing.T) {
	assert.LessOrEqual(t, Default().Len(), DefaultMaxPatterns)
}
