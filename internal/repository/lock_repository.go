package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/theatre-reservation/internal/backend"
    "github.com/iliyamo/theatre-reservation/internal/model"
)

// LockRepo reads the single-row system_lock table.  The row is maintained
// by operators out of band (or via the admin surface of another instance);
// this service only ever reads it.
type LockRepo struct {
    db *sql.DB
}

// NewLockRepo returns a LockRepo bound to the provided database.
func NewLockRepo(db *sql.DB) *LockRepo { return &LockRepo{db: db} }

// GetSystemLock returns the current lock flag.  A missing row means the
// system has never been locked and is treated as unlocked.
func (r *LockRepo) GetSystemLock(ctx context.Context) (model.SystemLockState, error) {
    const q = `SELECT is_locked, COALESCE(message, '') FROM system_lock WHERE id = 1`
    var st model.SystemLockState
    err := r.db.QueryRowContext(ctx, q).Scan(&st.IsLocked, &st.Message)
    if err == sql.ErrNoRows {
        return model.SystemLockState{}, nil
    }
    if err != nil {
        return model.SystemLockState{}, backend.Transport(err)
    }
    return st, nil
}
