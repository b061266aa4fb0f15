package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{"b": 1, "a": "x", "c": []any{true, nil}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1,"c":[true,null]}`, string(out))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	out, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(out))
}

func TestMarshalCanonical_IntegralFloatsPrintAsIntegers(t *testing.T) {
	out, err := MarshalCanonical([]any{10.0, 2.5, int64(3)})
	require.NoError(t, err)
	assert.Equal(t, `[10,2.5,3]`, string(out))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonical_TypedSlicesOfMaps(t *testing.T) {
	out, err := MarshalCanonical([]map[string]any{{"rate": 23, "countryCode": "PL"}})
	require.NoError(t, err)
	assert.Equal(t, `[{"countryCode":"PL","rate":23}]`, string(out))
}

func TestMarshalCanonical_RejectsStructs(t *testing.T) {
	_, err := MarshalCanonical(struct{ A int }{A: 1})
	assert.Error(t, err)
}
