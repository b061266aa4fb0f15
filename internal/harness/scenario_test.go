package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/configurator/internal/document"
)

const minimalScenario = `
name: minimal
description: "one channel"
document: |
  channels:
    - slug: us
runs:
  - expect:
      channels/us: created
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Runs, 1)
	assert.Equal(t, map[string]string{"channels/us": "created"}, s.Runs[0].Expect)
	assert.Contains(t, s.Document, "slug: us")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\ndocument: 'shop: {}'\nruns: [{}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\ndocument: 'shop: {}'\nruns: [{}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing document",
			yaml:    "name: n\ndescription: d\nruns: [{}]\n",
			wantErr: "document is required",
		},
		{
			name:    "no runs",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\n",
			wantErr: "runs list is required",
		},
		{
			name:    "negative parallelism",
			yaml:    "name: n\ndescription: d\nparallelism: -1\ndocument: 'shop: {}'\nruns: [{}]\n",
			wantErr: "parallelism must not be negative",
		},
		{
			name:    "unknown section in expect",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{expect: {vouchers/x: created}}]\n",
			wantErr: "unknown section",
		},
		{
			name:    "unknown status",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{expect: {shop/shop: skipped}}]\n",
			wantErr: "unknown status",
		},
		{
			name:    "expect and error",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{error: x, expect: {shop/shop: created}}]\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "bad failure op",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{}]\nfailures: [{op: delete, kind: channels, identifier: us, message: m}]\n",
			wantErr: "op must be list, create or update",
		},
		{
			name:    "failure without identifier",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{}]\nfailures: [{op: create, kind: channels, message: m}]\n",
			wantErr: "identifier is required for create",
		},
		{
			name:    "seed without identifier",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{}]\nremote: {channels: [{id: c1}]}\n",
			wantErr: "remote.channels[0]: identifier is required",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{}]\nassertions: [{type: nope}]\n",
			wantErr: "unknown assertion type",
		},
		{
			name:    "outcome_order with one key",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{}]\nassertions: [{type: outcome_order, keys: [shop/shop]}]\n",
			wantErr: "at least 2 keys",
		},
		{
			name:    "call_count without method",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{}]\nassertions: [{type: call_count, kind: channels}]\n",
			wantErr: "call_count requires kind and method",
		},
		{
			name:    "error_code without code",
			yaml:    "name: n\ndescription: d\ndocument: 'shop: {}'\nruns: [{}]\nassertions: [{type: error_code, key: shop/shop}]\n",
			wantErr: "error_code requires code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestSplitKey(t *testing.T) {
	section, identifier, err := splitKey("menus/footer/legal")
	require.NoError(t, err)
	assert.Equal(t, document.SectionMenus, section)
	assert.Equal(t, "footer/legal", identifier)

	for _, bad := range []string{"", "channels", "channels/", "/us", "vouchers/x"} {
		_, _, err := splitKey(bad)
		assert.Error(t, err, "key %q", bad)
	}
}
