package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/configurator/internal/canon"
	"github.com/roach88/configurator/internal/recovery"
)

// marshalFields converts entity fields to canonical JSON TEXT for storage,
// so that equal field sets are stored byte-identically.
func marshalFields(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := canon.MarshalCanonical(fields)
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	return string(data), nil
}

// unmarshalFields converts JSON TEXT back to a fields map.
// Returns an empty map (not nil) for an empty object.
func unmarshalFields(data string) (map[string]any, error) {
	fields := map[string]any{}
	if data == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	return fields, nil
}

type storedSuggestion struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

func marshalSuggestions(suggestions []recovery.Suggestion) (string, error) {
	stored := make([]any, len(suggestions))
	for i, s := range suggestions {
		obj := map[string]any{"message": s.Message}
		if s.Action != "" {
			obj["action"] = s.Action
		}
		stored[i] = obj
	}
	data, err := canon.MarshalCanonical(stored)
	if err != nil {
		return "", fmt.Errorf("marshal suggestions: %w", err)
	}
	return string(data), nil
}

func unmarshalSuggestions(data string) ([]recovery.Suggestion, error) {
	if data == "" {
		return []recovery.Suggestion{}, nil
	}
	var stored []storedSuggestion
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("unmarshal suggestions: %w", err)
	}
	out := make([]recovery.Suggestion, len(stored))
	for i, s := range stored {
		out[i] = recovery.Suggestion{Message: s.Message, Action: s.Action}
	}
	return out, nil
}
