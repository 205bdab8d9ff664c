package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
)

// ErrNotFound is returned when a macro ID does not exist.
var ErrNotFound = errors.New("macro not found")

// GetMacro reads one macro by ID.
func (s *Store) GetMacro(ctx context.Context, id string) (*macro.Macro, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, sequence, binding, steps, created_at
		FROM macros WHERE id = ?
	`, id)

	m, err := scanMacro(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get macro %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get macro %s: %w", id, err)
	}
	return m, nil
}

// FindMacroByName reads the first macro with the given name, newest first.
// Names are not unique; the newest wins for CLI convenience.
func (s *Store) FindMacroByName(ctx context.Context, name string) (*macro.Macro, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, sequence, binding, steps, created_at
		FROM macros WHERE name = ?
		ORDER BY created_at DESC, id ASC
		LIMIT 1
	`, name)

	m, err := scanMacro(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find macro %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find macro %q: %w", name, err)
	}
	return m, nil
}

// ListMacros reads all macros ordered by creation time descending (newest
// first), with ID as a deterministic tiebreak. This is the order the
// controller caches candidates in, and therefore the trigger-match order.
func (s *Store) ListMacros(ctx context.Context) ([]*macro.Macro, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sequence, binding, steps, created_at
		FROM macros
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list macros: %w", err)
	}
	defer rows.Close()

	var macros []*macro.Macro
	for rows.Next() {
		m, err := scanMacro(rows)
		if err != nil {
			return nil, fmt.Errorf("list macros: %w", err)
		}
		macros = append(macros, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list macros: %w", err)
	}

	return macros, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMacro(row scanner) (*macro.Macro, error) {
	var (
		m           macro.Macro
		seqJSON     string
		bindingJSON sql.NullString
		stepsJSON   string
		createdAt   int64
	)

	if err := row.Scan(&m.ID, &m.Name, &seqJSON, &bindingJSON, &stepsJSON, &createdAt); err != nil {
		return nil, err
	}

	seq, err := unmarshalSequence(seqJSON)
	if err != nil {
		return nil, err
	}
	m.Sequence = seq

	if bindingJSON.Valid {
		binding, err := event.DecodeBinding(bindingJSON.String)
		if err != nil {
			return nil, err
		}
		m.Binding = binding
	}

	steps, err := unmarshalSteps(stepsJSON)
	if err != nil {
		return nil, err
	}
	m.Steps = steps

	m.CreatedAt = time.Unix(0, createdAt)
	return &m, nil
}
