package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/theatre-reservation/internal/backend"
)

// ModePasswordRepo reads bcrypt hashes from the mode_passwords table.
// Each bypass mode ("system_lock", "admin") has exactly one shared
// password; the hash never leaves the repository layer unverified.
type ModePasswordRepo struct {
    db *sql.DB
}

// NewModePasswordRepo returns a ModePasswordRepo bound to the database.
func NewModePasswordRepo(db *sql.DB) *ModePasswordRepo { return &ModePasswordRepo{db: db} }

// GetHash returns the stored bcrypt hash for mode.  An unknown mode is an
// auth failure rather than a transport fault: it must not trigger
// failover.
func (r *ModePasswordRepo) GetHash(ctx context.Context, mode string) (string, error) {
    const q = `SELECT password_hash FROM mode_passwords WHERE mode = ?`
    var hash string
    err := r.db.QueryRowContext(ctx, q, mode).Scan(&hash)
    if err == sql.ErrNoRows {
        return "", backend.Errorf(backend.TypeAuth, "unknown bypass mode %q", mode)
    }
    if err != nil {
        return "", backend.Transport(err)
    }
    return hash, nil
}
