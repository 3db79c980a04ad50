package inventory

import "context"

// ConflictKind names which identity field collided during a uniqueness check
type ConflictKind string

const (
	ConflictSerialNumber ConflictKind = "SERIAL_NUMBER"
	ConflictIMEI1        ConflictKind = "IMEI1"
	ConflictIMEI2        ConflictKind = "IMEI2"
)

// IdentityConflict reports one collision found by the uniqueness index
type IdentityConflict struct {
	Kind  ConflictKind
	Value string
}

// AssetUniquenessIndex checks candidate serialized identities against units
// already registered. It is a pre-flight check only; the database unique
// indexes remain the final arbiter under concurrency.
type AssetUniquenessIndex interface {
	// FindConflicts returns the subset of the given identity values that
	// already exist. Empty-string values are ignored.
	FindConflicts(ctx context.Context, serials, imeis []string) ([]IdentityConflict, error)
}
