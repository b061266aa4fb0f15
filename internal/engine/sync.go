package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/configurator/internal/canon"
	"github.com/roach88/configurator/internal/document"
	"github.com/roach88/configurator/internal/remote"
)

// Change is one field that a create or update sets.
type Change struct {
	Field string `json:"field"`
	From  any    `json:"from,omitempty"`
	To    any    `json:"to"`
}

// field is one desired field of an entity. A nil value means the field is
// omitted from the document and is neither compared nor sent. Reference
// fields carry a resolve function instead of a value. A merge field is an
// object whose keys are overlaid on the remote object, so keys the
// document leaves out keep their remote value.
type field struct {
	name    string
	form    canon.Form
	value   any
	merge   bool
	resolve func(ctx context.Context, r *Resolver) (any, error)
}

// describeFunc turns a record into its desired fields.
type describeFunc func(record document.Record) ([]field, error)

// Synchronizer reconciles the entities of one section.
//
// Sync locates the remote entity by identifier, resolves reference fields,
// and then creates the entity with every present field, updates only the
// fields that differ, or does nothing. Every failure is returned as a
// Failed outcome; Sync never panics on bad input and never stops the run.
type Synchronizer struct {
	section  document.Section
	describe describeFunc
	client   remote.Client
	resolver *Resolver
}

// NewSynchronizer returns the synchronizer for section. The resolver is
// the run's resolution cache and is shared by every synchronizer of the
// run.
func NewSynchronizer(section document.Section, client remote.Client, resolver *Resolver) (*Synchronizer, error) {
	describe, ok := describers[section]
	if !ok {
		return nil, fmt.Errorf("no synchronizer for section %q", section)
	}
	return &Synchronizer{section: section, describe: describe, client: client, resolver: resolver}, nil
}

// Section returns the section this synchronizer handles.
func (s *Synchronizer) Section() document.Section {
	return s.section
}

// Sync reconciles one record. The returned outcome has no Seq; the caller
// stamps it.
func (s *Synchronizer) Sync(ctx context.Context, record document.Record) Outcome {
	identifier := record.Identifier()
	outcome := Outcome{Section: s.section, Identifier: identifier}

	current, found, err := s.resolver.Lookup(ctx, s.section, identifier)
	if err != nil {
		return outcome.fail(err)
	}

	desired, err := s.desiredFields(ctx, record)
	if err != nil {
		return outcome.fail(err)
	}

	if !found {
		return s.create(ctx, outcome, desired)
	}
	return s.update(ctx, outcome, current, desired)
}

// resolvedField is a desired field after reference resolution and
// normalization.
type resolvedField struct {
	name  string
	form  canon.Form
	value any
	merge bool
}

func (s *Synchronizer) desiredFields(ctx context.Context, record document.Record) ([]resolvedField, error) {
	identifier := record.Identifier()

	fields, err := s.describe(record)
	if err != nil {
		return nil, s.configError(identifier, err)
	}

	out := make([]resolvedField, 0, len(fields))
	for _, f := range fields {
		value := f.value
		if f.resolve != nil {
			value, err = f.resolve(ctx, s.resolver)
			if err != nil {
				return nil, err
			}
		}
		if value == nil {
			continue
		}
		normalized, err := canon.Normalize(f.form, value)
		if err != nil {
			return nil, &ConfigurationError{Section: s.section, Identifier: identifier, Field: f.name, Err: err}
		}
		out = append(out, resolvedField{name: f.name, form: f.form, value: normalized, merge: f.merge})
	}
	return out, nil
}

func (s *Synchronizer) create(ctx context.Context, outcome Outcome, desired []resolvedField) Outcome {
	payload := remote.Payload{Identifier: outcome.Identifier, Fields: make(map[string]any, len(desired))}
	changes := make([]Change, 0, len(desired))
	for _, f := range desired {
		payload.Fields[f.name] = f.value
		changes = append(changes, Change{Field: f.name, To: f.value})
	}

	created, err := s.client.Create(ctx, string(s.section), payload)
	if err != nil {
		return outcome.fail(&RemoteOperationError{Section: s.section, Identifier: outcome.Identifier, Op: "create", Err: err})
	}
	if created.Identifier == "" {
		created.Identifier = outcome.Identifier
	}
	s.resolver.Record(s.section, created)

	outcome.Status = StatusCreated
	outcome.RemoteID = created.ID
	outcome.Changes = changes
	return outcome
}

func (s *Synchronizer) update(ctx context.Context, outcome Outcome, current remote.Entity, desired []resolvedField) Outcome {
	outcome.RemoteID = current.ID

	payload := remote.Payload{Identifier: outcome.Identifier, Fields: map[string]any{}}
	var changes []Change
	for _, f := range desired {
		have, ok := current.Fields[f.name]
		want := f.value
		if f.merge {
			want = overlay(have, want)
		}
		if ok && canon.Equal(f.form, want, have) {
			continue
		}
		payload.Fields[f.name] = want
		changes = append(changes, Change{Field: f.name, From: have, To: want})
	}

	if len(changes) == 0 {
		outcome.Status = StatusUnchanged
		return outcome
	}

	updated, err := s.client.Update(ctx, string(s.section), current.ID, payload)
	if err != nil {
		return outcome.fail(&RemoteOperationError{Section: s.section, Identifier: outcome.Identifier, Op: "update", Err: err})
	}

	merged := current.Clone()
	for k, v := range payload.Fields {
		merged.Fields[k] = v
	}
	for k, v := range updated.Fields {
		merged.Fields[k] = v
	}
	if updated.ID != "" {
		merged.ID = updated.ID
	}
	s.resolver.Record(s.section, merged)

	outcome.Status = StatusUpdated
	outcome.RemoteID = merged.ID
	outcome.Changes = changes
	return outcome
}

// overlay returns the remote object with the desired keys set. Anything
// that is not a pair of objects yields desired unchanged.
func overlay(have, desired any) any {
	base, ok := have.(map[string]any)
	if !ok {
		return desired
	}
	top, ok := desired.(map[string]any)
	if !ok {
		return desired
	}
	out := make(map[string]any, len(base)+len(top))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

func (s *Synchronizer) configError(identifier string, err error) error {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return err
	}
	var fe *document.FieldError
	if errors.As(err, &fe) {
		return &ConfigurationError{Section: s.section, Identifier: identifier, Field: fe.Field, Err: fe.Err}
	}
	return &ConfigurationError{Section: s.section, Identifier: identifier, Err: err}
}

// Field constructors. Optional document values map to nil when absent so
// that they drop out of diffs.

func text(name string, v *string) field {
	return field{name: name, form: canon.Text, value: deref(v)}
}

func enum(name string, v *string) field {
	return field{name: name, form: canon.Enum, value: deref(v)}
}

func boolean(name string, v *bool) field {
	return field{name: name, form: canon.Bool, value: deref(v)}
}

func integer(name string, v *int) field {
	return field{name: name, form: canon.Integer, value: deref(v)}
}

func number(name string, v *float64) field {
	return field{name: name, form: canon.Number, value: deref(v)}
}

func required(name string, form canon.Form, v any) field {
	return field{name: name, form: form, value: v}
}

func mergeObject(name string, v map[string]any) field {
	return field{name: name, form: canon.Object, value: v, merge: true}
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// ref resolves a single identifier of target into its remote ID. A nil
// identifier omits the field.
func ref(name string, target document.Section, identifier *string) field {
	if identifier == nil {
		return field{name: name, form: canon.Text}
	}
	id := *identifier
	return field{name: name, form: canon.Text, resolve: func(ctx context.Context, r *Resolver) (any, error) {
		resolved, err := r.Resolve(ctx, target, id)
		if err != nil {
			return nil, err
		}
		return resolved.ID, nil
	}}
}

// refs resolves a list of identifiers of target. The form decides whether
// order matters. A nil list omits the field; an empty list clears it.
func refs(name string, form canon.Form, target document.Section, identifiers []string) field {
	if identifiers == nil {
		return field{name: name, form: form}
	}
	return field{name: name, form: form, resolve: func(ctx context.Context, r *Resolver) (any, error) {
		resolved, err := r.ResolveAll(ctx, target, identifiers)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(resolved))
		for i, rr := range resolved {
			out[i] = rr.ID
		}
		return out, nil
	}}
}
