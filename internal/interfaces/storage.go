// Package interfaces defines service contracts for the stock dashboard
package interfaces

import (
	"context"
	"encoding/json"
)

// Revision is an opaque optimistic-concurrency token for a stored document.
// The GitHub backend uses the blob SHA; the file backend uses a content hash.
// An empty Revision on Put means "create only".
type Revision string

// DocumentStore is a versioned JSON document store with compare-and-swap
// semantics. It is the only concurrency control in the system and it is
// advisory: two concurrent fetch-modify-write cycles on the same path race,
// and the loser observes a conflict rather than a merge.
//
// Errors are classified via models.ServiceError kinds:
// absent document -> KindNotFound; revision mismatch (including create on an
// existing path) -> KindConflict; transport failure -> KindUnavailable.
type DocumentStore interface {
	// Get returns the document at path together with its current revision.
	Get(ctx context.Context, path string) (json.RawMessage, Revision, error)

	// Put writes doc at path. rev must match the stored revision; an empty
	// rev creates the document and conflicts if it already exists. message
	// is a human-readable change description recorded for audit purposes.
	Put(ctx context.Context, path string, doc json.RawMessage, rev Revision, message string) (Revision, error)

	// Delete removes the document at path. rev must match.
	Delete(ctx context.Context, path string, rev Revision, message string) error
}
