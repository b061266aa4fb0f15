// Package remote defines the transport boundary between the reconciliation
// engine and the service being configured.
//
// A Client lists, creates and updates entities of one kind at a time. The
// engine never retries; retry and backoff belong to Client implementations.
// Update has merge semantics: fields absent from the payload are left as
// they are on the remote side.
package remote

//go:generate mockgen -destination=remotemock/client.go -package=remotemock github.com/roach88/configurator/internal/remote Client

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// Client is the remote transport consumed by the engine.
type Client interface {
	// List returns every entity of kind.
	List(ctx context.Context, kind string) ([]Entity, error)

	// Create creates an entity of kind and returns its remote representation.
	Create(ctx context.Context, kind string, payload Payload) (Entity, error)

	// Update patches the entity with the given remote ID.
	Update(ctx context.Context, kind, id string, payload Payload) (Entity, error)
}

// Entity is the remote representation of an entity.
type Entity struct {
	ID         string         `json:"id"`
	Identifier string         `json:"identifier"`
	Fields     map[string]any `json:"fields"`
}

// Clone returns a copy whose Fields map can be mutated independently.
func (e Entity) Clone() Entity {
	e.Fields = maps.Clone(e.Fields)
	if e.Fields == nil {
		e.Fields = map[string]any{}
	}
	return e
}

// Payload is the body of a create or update call. Reference fields carry
// remote IDs.
type Payload struct {
	Identifier string         `json:"identifier"`
	Fields     map[string]any `json:"fields"`
}

// Error is a failure reported by the remote service.
type Error struct {
	// Message is the human-readable error.
	Message string

	// Code is an optional machine-readable code, e.g. "UNIQUE" or "NOT_FOUND".
	Code string

	// Field optionally names the payload field that was rejected.
	Field string
}

// Error codes used by the in-memory and sandbox remotes.
const (
	CodeNotFound = "NOT_FOUND"
	CodeUnique   = "UNIQUE"
	CodeInvalid  = "INVALID"
)

func (e *Error) Error() string {
	switch {
	case e.Code != "" && e.Field != "":
		return fmt.Sprintf("%s (code=%s, field=%s)", e.Message, e.Code, e.Field)
	case e.Code != "":
		return fmt.Sprintf("%s (code=%s)", e.Message, e.Code)
	default:
		return e.Message
	}
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
