// Package meta persists per-root project metadata: human-supplied overrides
// like impact and approval that feed the priority scorer, plus custom
// command mappings. The store lives at <root>/.specfleet/meta.json.
package meta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specfleet/specfleet/internal/faults"
)

// storeVersion is written into every saved store.
const storeVersion = "1.0.0"

// Dir is the per-root state directory name shared by all persisted state.
const Dir = ".specfleet"

// ProjectMeta holds the human-override metadata for one project.
type ProjectMeta struct {
	Impact          *int              `json:"impact,omitempty"`
	ApprovedByHuman bool              `json:"approved_by_human"`
	CustomCommands  map[string]string `json:"custom_commands"`
	AgentCommand    string            `json:"agent_command,omitempty"`
	AutomationLevel string            `json:"automation_level,omitempty"`
	AutoApprove     []string          `json:"auto_approve"`
}

// Store maps project identifiers to their metadata.
type Store struct {
	Version  string                 `json:"version"`
	Projects map[string]ProjectMeta `json:"projects"`
}

// NewStore returns an empty store at the current version.
func NewStore() *Store {
	return &Store{Version: storeVersion, Projects: map[string]ProjectMeta{}}
}

func storePath(root string) string {
	return filepath.Join(root, Dir, "meta.json")
}

// Load reads the metadata store for root. A missing file yields an empty
// store; a malformed file is a serialization error and must not silently
// fall back to defaults.
func Load(root string) (*Store, error) {
	data, err := os.ReadFile(storePath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(), nil
		}
		return nil, fmt.Errorf("%w: reading meta store: %v", faults.ErrFilesystem, err)
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: parsing meta.json: %v", faults.ErrSerialization, err)
	}
	if s.Projects == nil {
		s.Projects = map[string]ProjectMeta{}
	}
	return &s, nil
}

// Save writes the store under root, creating the state directory as needed.
func (s *Store) Save(root string) error {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", faults.ErrFilesystem, dir, err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling meta store: %v", faults.ErrSerialization, err)
	}
	if err := os.WriteFile(storePath(root), data, 0o644); err != nil {
		return fmt.Errorf("%w: writing meta.json: %v", faults.ErrFilesystem, err)
	}
	return nil
}

// Get returns the metadata for a project, reporting whether any was stored.
func (s *Store) Get(projectID string) (ProjectMeta, bool) {
	m, ok := s.Projects[projectID]
	return m, ok
}

// Set updates one metadata field through the generic key/value interface.
// Recognized keys: impact (integer), approved_by_human (boolean),
// agent_command (raw string), and command.<name> (custom command mapping).
// Any other key is rejected.
func (s *Store) Set(projectID, key, value string) error {
	m := s.Projects[projectID]
	if m.CustomCommands == nil {
		m.CustomCommands = map[string]string{}
	}

	switch {
	case key == "impact":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: impact value %q is not an integer", faults.ErrConfiguration, value)
		}
		m.Impact = &n
	case key == "approved_by_human":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: approved_by_human value %q is not a boolean", faults.ErrConfiguration, value)
		}
		m.ApprovedByHuman = b
	case key == "agent_command":
		m.AgentCommand = value
	case strings.HasPrefix(key, "command."):
		name := strings.TrimPrefix(key, "command.")
		m.CustomCommands[name] = value
	default:
		return fmt.Errorf("%w: unknown key: %s", faults.ErrConfiguration, key)
	}

	s.Projects[projectID] = m
	return nil
}
