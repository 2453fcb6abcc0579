package state

import "github.com/osse101/InventoryHUD_Go/internal/domain"

// Cloner is implemented by values that can produce a deep copy of themselves.
type Cloner[T any] interface {
	Clone() T
}

// Tx holds a snapshot taken before an optimistic change. Exactly one of
// Commit or Abort takes effect; later calls return domain.ErrTxCompleted.
type Tx[T Cloner[T]] struct {
	snapshot T
	done     bool
}

// Begin snapshots v.
func Begin[T Cloner[T]](v T) *Tx[T] {
	return &Tx[T]{snapshot: v.Clone()}
}

// Snapshot returns a copy of the saved value.
func (tx *Tx[T]) Snapshot() T {
	return tx.snapshot.Clone()
}

// Done reports whether the transaction has been committed or aborted.
func (tx *Tx[T]) Done() bool {
	return tx.done
}

// Commit discards the snapshot.
func (tx *Tx[T]) Commit() error {
	if tx.done {
		return domain.ErrTxCompleted
	}
	tx.done = true
	var zero T
	tx.snapshot = zero
	return nil
}

// Abort hands back the snapshot for restoring.
func (tx *Tx[T]) Abort() (T, error) {
	var zero T
	if tx.done {
		return zero, domain.ErrTxCompleted
	}
	tx.done = true
	out := tx.snapshot
	tx.snapshot = zero
	return out, nil
}
