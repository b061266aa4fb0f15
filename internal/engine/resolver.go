package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/roach88/configurator/internal/document"
	"github.com/roach88/configurator/internal/remote"
)

// RemoteRef is a resolved reference: an identifier of a section together
// with the remote ID it maps to.
type RemoteRef struct {
	Section    document.Section `json:"section"`
	Identifier string           `json:"identifier"`
	ID         string           `json:"id"`
}

// Resolver maps identifiers to remote entities for one run.
//
// The first request for a section lists every remote entity of that kind
// exactly once; later requests are answered from the index, including
// requests that arrive concurrently while the list is in flight. Entities
// created or updated during the run are added with Record so that later
// references see them.
//
// Identifiers match exactly and case-sensitively.
//
// A Resolver is owned by a single run. Safe for concurrent use.
type Resolver struct {
	client remote.Client
	group  singleflight.Group

	mu      sync.RWMutex
	indexes map[document.Section]*sectionIndex
}

type sectionIndex struct {
	order    []string
	entities map[string]remote.Entity
	err      error
}

// NewResolver creates a cold resolver over client.
func NewResolver(client remote.Client) *Resolver {
	return &Resolver{
		client:  client,
		indexes: make(map[document.Section]*sectionIndex),
	}
}

// Resolve returns the remote reference for identifier in section.
//
// Returns *ReferenceNotFoundError when the identifier is unknown, or
// *RemoteOperationError when the section could not be listed.
func (r *Resolver) Resolve(ctx context.Context, section document.Section, identifier string) (RemoteRef, error) {
	entity, ok, err := r.Lookup(ctx, section, identifier)
	if err != nil {
		return RemoteRef{}, err
	}
	if !ok {
		return RemoteRef{}, &ReferenceNotFoundError{Section: section, Identifier: identifier}
	}
	return RemoteRef{Section: section, Identifier: identifier, ID: entity.ID}, nil
}

// ResolveAll resolves identifiers in order. It fails on the first
// identifier that cannot be resolved.
func (r *Resolver) ResolveAll(ctx context.Context, section document.Section, identifiers []string) ([]RemoteRef, error) {
	refs := make([]RemoteRef, 0, len(identifiers))
	for _, identifier := range identifiers {
		ref, err := r.Resolve(ctx, section, identifier)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Lookup returns the remote entity for identifier in section from the same
// bulk fetch Resolve uses. The boolean is false when no such entity exists.
func (r *Resolver) Lookup(ctx context.Context, section document.Section, identifier string) (remote.Entity, bool, error) {
	if err := r.load(ctx, section); err != nil {
		return remote.Entity{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.indexes[section].entities[identifier]
	if !ok {
		return remote.Entity{}, false, nil
	}
	return entity.Clone(), true, nil
}

// Prefetch lists every given section that is not indexed yet. Callers that
// fan out over a section use it so the index is complete before any
// parallel reader consults it.
func (r *Resolver) Prefetch(ctx context.Context, sections ...document.Section) error {
	for _, section := range sections {
		if err := r.load(ctx, section); err != nil {
			return err
		}
	}
	return nil
}

// Record adds or replaces an entity in an already indexed section.
// Sections that were never listed are left cold; their first lookup will
// see the entity on the remote anyway.
func (r *Resolver) Record(section document.Section, entity remote.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.indexes[section]
	if !ok || idx.err != nil {
		return
	}
	if _, exists := idx.entities[entity.Identifier]; !exists {
		idx.order = append(idx.order, entity.Identifier)
	}
	idx.entities[entity.Identifier] = entity.Clone()
}

// Known returns the identifiers indexed for section, in remote order
// followed by those recorded during the run. Cold sections return nil.
func (r *Resolver) Known(section document.Section) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.indexes[section]
	if !ok {
		return nil
	}
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// load builds the index for section at most once per run. A failed list is
// remembered so that every entity of the section fails the same way
// without hitting the remote again.
func (r *Resolver) load(ctx context.Context, section document.Section) error {
	r.mu.RLock()
	idx, ok := r.indexes[section]
	r.mu.RUnlock()
	if ok {
		return idx.err
	}

	_, err, _ := r.group.Do(string(section), func() (any, error) {
		r.mu.RLock()
		idx, ok := r.indexes[section]
		r.mu.RUnlock()
		if ok {
			return nil, idx.err
		}

		entities, err := r.client.List(ctx, string(section))
		idx = &sectionIndex{entities: make(map[string]remote.Entity, len(entities))}
		if err != nil {
			idx.err = &RemoteOperationError{Section: section, Op: "list", Err: err}
		}
		for _, e := range entities {
			if _, dup := idx.entities[e.Identifier]; !dup {
				idx.order = append(idx.order, e.Identifier)
			}
			idx.entities[e.Identifier] = e.Clone()
		}

		r.mu.Lock()
		r.indexes[section] = idx
		r.mu.Unlock()
		return nil, idx.err
	})
	return err
}
