package runner

import (
	"context"

	"github.com/chekov-db/chekov/internal/ckerr"
	"github.com/chekov-db/chekov/internal/engine"
)

// MemJournal is an in-memory Journal. Used for dry runs, where applied
// state is seeded from the real journal but changes must not persist, and
// for offline planning without a database.
type MemJournal struct {
	entries []engine.AppliedMigration
}

// NewMemJournal creates a journal pre-seeded with the given entries.
func NewMemJournal(entries []engine.AppliedMigration) *MemJournal {
	return &MemJournal{entries: entries}
}

func (j *MemJournal) Applied(ctx context.Context) ([]engine.AppliedMigration, error) {
	return append([]engine.AppliedMigration(nil), j.entries...), nil
}

func (j *MemJournal) Record(ctx context.Context, entry engine.AppliedMigration) error {
	j.entries = append(j.entries, entry)
	return nil
}

func (j *MemJournal) Remove(ctx context.Context, revision string) error {
	for i, e := range j.entries {
		if e.Revision == revision {
			j.entries = append(j.entries[:i], j.entries[i+1:]...)
			return nil
		}
	}
	return ckerr.New(ckerr.ErrMigrationNotFound, "no journal entry").With("revision", revision)
}

// ReplaySchema reconstructs the constraint state implied by the applied
// migrations, without emitting DDL. Journaled constraint names are pinned
// so anonymous constraints keep the names they were created with.
func ReplaySchema(all []engine.Migration, applied []engine.AppliedMigration) (*engine.Schema, error) {
	ledger, err := rebuildLedger(all, applied, engine.Discard(), nil)
	if err != nil {
		return nil, err
	}
	return ledger.Schema(), nil
}
