// Package backup reads and writes the portable JSON backup format:
// a wrapper {exportedAt, store} around the full store. Import also
// accepts a bare store or a legacy blob so old exports stay usable.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wealthflow/wealthflow/internal/ledger"
	"github.com/wealthflow/wealthflow/internal/migrate"
)

// Envelope is the on-disk backup document.
type Envelope struct {
	ExportedAt string       `json:"exportedAt"`
	Store      ledger.Store `json:"store"`
}

// Export writes the wrapped store as indented JSON.
func Export(w io.Writer, store ledger.Store, now time.Time) error {
	payload := Envelope{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Store:      store,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Filename is the conventional backup file name for a given day.
func Filename(now time.Time) string {
	return "wealthflow-backup-" + now.UTC().Format("2006-01-02") + ".json"
}

// Import parses a backup, unwraps the envelope if present, validates
// the shape and migrates it to the canonical store. The returned error
// message is user-facing and names the first structural violation.
func Import(r io.Reader, m *migrate.Migrator) (ledger.Store, error) {
	var parsed any
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return ledger.Store{}, errors.New("Import failed: invalid JSON file.")
	}

	incoming := parsed
	if obj, ok := parsed.(map[string]any); ok {
		if inner, ok := obj["store"].(map[string]any); ok {
			incoming = inner
		}
	}

	if msg := migrate.ValidateImport(incoming); msg != "" {
		return ledger.Store{}, errors.New(msg)
	}
	return m.Migrate(incoming), nil
}
