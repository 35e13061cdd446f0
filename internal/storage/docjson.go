package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bi-al1/stock-dashboard/internal/interfaces"
)

// LoadJSON fetches the document at path and unmarshals it into dest,
// returning the revision for a later compare-and-swap write.
func LoadJSON(ctx context.Context, store interfaces.DocumentStore, path string, dest any) (interfaces.Revision, error) {
	raw, rev, err := store.Get(ctx, path)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return "", fmt.Errorf("failed to parse document '%s': %w", path, err)
	}
	return rev, nil
}

// SaveJSON marshals v and writes it at path under the given revision.
// Documents are indented so the stored files stay reviewable by hand.
func SaveJSON(ctx context.Context, store interfaces.DocumentStore, path string, v any, rev interfaces.Revision, message string) (interfaces.Revision, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode document '%s': %w", path, err)
	}
	return store.Put(ctx, path, data, rev, message)
}
