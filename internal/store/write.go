package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
)

// ErrEmptyName is returned when a rename would persist an empty name.
// Empty-name edits are discarded, not saved.
var ErrEmptyName = errors.New("macro name must be non-empty")

// CreateMacro inserts a macro record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations still return errors.
func (s *Store) CreateMacro(ctx context.Context, m *macro.Macro) error {
	seqJSON, err := marshalSequence(m.Sequence)
	if err != nil {
		return fmt.Errorf("create macro: %w", err)
	}

	bindingJSON, err := event.EncodeBinding(m.Binding)
	if err != nil {
		return fmt.Errorf("create macro: %w", err)
	}

	stepsJSON, err := marshalSteps(m.Steps)
	if err != nil {
		return fmt.Errorf("create macro: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO macros (id, name, sequence, binding, steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		m.ID,
		m.Name,
		seqJSON,
		nullable(bindingJSON),
		stepsJSON,
		m.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("create macro: %w", err)
	}

	return nil
}

// SaveSequence replaces a macro's event sequence and refreshes the display
// projection from it. The projection is derived, never authored.
func (s *Store) SaveSequence(ctx context.Context, id string, seq []event.InputEvent) error {
	seqJSON, err := marshalSequence(seq)
	if err != nil {
		return fmt.Errorf("save sequence: %w", err)
	}

	stepsJSON, err := marshalSteps(macro.ProjectSteps(seq))
	if err != nil {
		return fmt.Errorf("save sequence: %w", err)
	}

	return s.exec(ctx, "save sequence", `
		UPDATE macros SET sequence = ?, steps = ? WHERE id = ?
	`, seqJSON, stepsJSON, id)
}

// AppendEvent appends one event to a macro's sequence. Used by the live-edit
// callback to mirror events into storage in near-real-time while recording.
//
// The read-modify-write runs in a transaction so concurrent appends cannot
// drop events.
func (s *Store) AppendEvent(ctx context.Context, id string, ev event.InputEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	defer tx.Rollback()

	var seqJSON string
	err = tx.QueryRowContext(ctx, `SELECT sequence FROM macros WHERE id = ?`, id).Scan(&seqJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("append event: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	seq, err := unmarshalSequence(seqJSON)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	seq = append(seq, ev)

	newSeqJSON, err := marshalSequence(seq)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	stepsJSON, err := marshalSteps(macro.ProjectSteps(seq))
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE macros SET sequence = ?, steps = ? WHERE id = ?
	`, newSeqJSON, stepsJSON, id); err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// RenameMacro updates a macro's name. Empty names are rejected with
// ErrEmptyName and nothing is written.
func (s *Store) RenameMacro(ctx context.Context, id, name string) error {
	if !macro.ValidName(name) {
		return ErrEmptyName
	}
	return s.exec(ctx, "rename macro", `UPDATE macros SET name = ? WHERE id = ?`, name, id)
}

// SetBinding assigns a macro's trigger binding.
func (s *Store) SetBinding(ctx context.Context, id string, binding event.InputEvent) error {
	bindingJSON, err := event.EncodeBinding(&binding)
	if err != nil {
		return fmt.Errorf("set binding: %w", err)
	}
	return s.exec(ctx, "set binding", `UPDATE macros SET binding = ? WHERE id = ?`, bindingJSON, id)
}

// ClearBinding removes a macro's trigger binding.
func (s *Store) ClearBinding(ctx context.Context, id string) error {
	return s.exec(ctx, "clear binding", `UPDATE macros SET binding = NULL WHERE id = ?`, id)
}

// DeleteMacro removes a macro record. Deleting a missing macro returns
// ErrNotFound.
func (s *Store) DeleteMacro(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM macros WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete macro: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete macro: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete macro %s: %w", id, ErrNotFound)
	}
	return nil
}

// exec runs an UPDATE that must touch exactly one existing row.
func (s *Store) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// nullable maps the empty string to NULL for optional TEXT columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
