package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID  ID
	EdgeID ID
)

func (id RunID) String() string  { return ID(id).String() }
func (id EdgeID) String() string { return ID(id).String() }

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// VariableKey identifies a variable by its exact name. Equality is
// case-sensitive; the same logical variable must always be referenced by
// the identical name string across one discovery run.
type VariableKey string

// String returns the string representation
func (k VariableKey) String() string {
	return string(k)
}

// IsEmpty checks if the key is empty
func (k VariableKey) IsEmpty() bool {
	return k == ""
}

// MatchesName reports whether free-text model output names this variable.
// Matching against model output is case-insensitive exact match.
func (k VariableKey) MatchesName(name string) bool {
	return strings.EqualFold(string(k), strings.TrimSpace(name))
}
