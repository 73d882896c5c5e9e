package causal

import (
	"fmt"

	"gocausal/domain/core"
)

// Variable is a named quantity in the causal system. Identity is the name
// alone: two Variables with the same name are the same logical variable.
// Immutable once created.
type Variable struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewVariable creates a variable with the given name and description
func NewVariable(name, description string) Variable {
	return Variable{Name: name, Description: description}
}

// Key returns the variable's identity key
func (v Variable) Key() core.VariableKey {
	return core.VariableKey(v.Name)
}

// Equal reports name-based identity
func (v Variable) Equal(other Variable) bool {
	return v.Name == other.Name
}

func (v Variable) String() string {
	return fmt.Sprintf("Variable(%s)", v.Name)
}

// MatchVariable resolves a free-text name from model output to one of the
// known variables. Matching is case-insensitive exact; unmatched names
// return false (they cannot correspond to a known variable).
func MatchVariable(name string, variables []Variable) (Variable, bool) {
	for _, v := range variables {
		if v.Key().MatchesName(name) {
			return v, true
		}
	}
	return Variable{}, false
}
