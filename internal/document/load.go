package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Source produces a validated configuration document.
type Source interface {
	Load() (*Document, error)
}

// FileSource loads a document from a file, picking the decoder by extension.
type FileSource struct {
	Path string
}

// Load reads, decodes and validates the document.
func (s FileSource) Load() (*Document, error) {
	doc, err := LoadFile(s.Path)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// LoadFile decodes a document without schema validation.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return DecodeYAML(data)
	case ".toml":
		return DecodeTOML(data)
	case ".cue":
		return DecodeCUE(data, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// DecodeYAML decodes a YAML (or JSON) document. Unknown keys are rejected
// so typos surface instead of being silently ignored.
func DecodeYAML(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &doc, nil
}

// DecodeTOML decodes a TOML document. Unknown keys are rejected.
func DecodeTOML(data []byte) (*Document, error) {
	var doc Document
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("failed to parse TOML: unknown keys: %s", strings.Join(keys, ", "))
	}
	return &doc, nil
}

// DecodeCUE evaluates a CUE document and decodes its concrete value.
func DecodeCUE(data []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE document is not concrete: %w", err)
	}

	var doc Document
	if err := v.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode CUE: %w", err)
	}
	return &doc, nil
}
