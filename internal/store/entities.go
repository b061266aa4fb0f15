package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/configurator/internal/remote"
)

var _ remote.Client = (*Store)(nil)

// List implements remote.Client.
// Rows are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) when no entity of kind exists.
func (s *Store) List(ctx context.Context, kind string) ([]remote.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, identifier, fields
		FROM entities
		WHERE kind = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	entities := []remote.Entity{}
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return entities, nil
}

// Create implements remote.Client. Identifiers are unique per kind; a
// second create for the same identifier fails with code UNIQUE.
func (s *Store) Create(ctx context.Context, kind string, payload remote.Payload) (remote.Entity, error) {
	fieldsJSON, err := marshalFields(payload.Fields)
	if err != nil {
		return remote.Entity{}, &remote.Error{Message: err.Error(), Code: remote.CodeInvalid}
	}

	id := s.ids.Generate()
	now := s.timestamp()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entities (id, kind, identifier, fields, seq, created_at, updated_at)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM entities), ?, ?)
	`, id, kind, payload.Identifier, fieldsJSON, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return remote.Entity{}, &remote.Error{
				Message: fmt.Sprintf("%s with identifier %q already exists", kind, payload.Identifier),
				Code:    remote.CodeUnique,
			}
		}
		return remote.Entity{}, fmt.Errorf("insert entity: %w", err)
	}

	fields, err := unmarshalFields(fieldsJSON)
	if err != nil {
		return remote.Entity{}, err
	}
	return remote.Entity{ID: id, Identifier: payload.Identifier, Fields: fields}, nil
}

// Update implements remote.Client with merge semantics: fields absent from
// the payload keep their stored value.
func (s *Store) Update(ctx context.Context, kind, id string, payload remote.Payload) (remote.Entity, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return remote.Entity{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, identifier, fields FROM entities WHERE kind = ? AND id = ?
	`, kind, id)
	current, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return remote.Entity{}, &remote.Error{
			Message: fmt.Sprintf("%s %q not found", kind, id),
			Code:    remote.CodeNotFound,
		}
	}
	if err != nil {
		return remote.Entity{}, err
	}

	for k, v := range payload.Fields {
		current.Fields[k] = v
	}
	fieldsJSON, err := marshalFields(current.Fields)
	if err != nil {
		return remote.Entity{}, &remote.Error{Message: err.Error(), Code: remote.CodeInvalid}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE entities SET fields = ?, updated_at = ? WHERE id = ?
	`, fieldsJSON, s.timestamp(), id); err != nil {
		return remote.Entity{}, fmt.Errorf("update entity: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return remote.Entity{}, fmt.Errorf("commit update: %w", err)
	}

	current.Fields, err = unmarshalFields(fieldsJSON)
	if err != nil {
		return remote.Entity{}, err
	}
	return current, nil
}

// Kinds returns every kind with at least one stored entity, sorted.
func (s *Store) Kinds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT kind FROM entities ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("query kinds: %w", err)
	}
	defer rows.Close()

	kinds := []string{}
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return nil, fmt.Errorf("scan kind: %w", err)
		}
		kinds = append(kinds, kind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kinds: %w", err)
	}
	return kinds, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(row scanner) (remote.Entity, error) {
	var (
		e          remote.Entity
		fieldsJSON string
	)
	if err := row.Scan(&e.ID, &e.Identifier, &fieldsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return remote.Entity{}, err
		}
		return remote.Entity{}, fmt.Errorf("scan entity: %w", err)
	}
	fields, err := unmarshalFields(fieldsJSON)
	if err != nil {
		return remote.Entity{}, err
	}
	e.Fields = fields
	return e, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
