package report

import (
	"encoding/json"
	"fmt"

	"github.com/specfleet/specfleet/internal/portfolio"
)

// JSONReport renders the full snapshot as machine-readable JSON for external
// tooling.
type JSONReport struct{}

// Render produces an indented JSON document of the snapshot.
func (r *JSONReport) Render(snap *portfolio.Snapshot) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("snapshot is nil")
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON report: %w", err)
	}
	return string(data) + "\n", nil
}
