package causal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gocausal/domain/core"
)

// Report is the discovery report: a named mapping from section name to
// structured content, order-preserving.
type Report struct {
	Order     []string               `json:"-"`
	Sections  map[string]interface{} `json:"sections"`
	Timestamp core.Timestamp         `json:"timestamp"`
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{
		Sections:  make(map[string]interface{}),
		Timestamp: core.Now(),
	}
}

// AddSection adds a section, preserving insertion order
func (r *Report) AddSection(name string, content interface{}) {
	if _, exists := r.Sections[name]; !exists {
		r.Order = append(r.Order, name)
	}
	r.Sections[name] = content
}

// Section returns a section's content, nil if absent
func (r *Report) Section(name string) interface{} {
	return r.Sections[name]
}

// ToDict converts the report to its portable representation
func (r *Report) ToDict() map[string]interface{} {
	return map[string]interface{}{
		"timestamp": r.Timestamp.String(),
		"sections":  r.Sections,
	}
}

// MarshalJSON writes sections in insertion order. A plain map would
// serialize them alphabetically.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"timestamp":`)
	ts, err := json.Marshal(r.Timestamp.String())
	if err != nil {
		return nil, err
	}
	buf.Write(ts)
	buf.WriteString(`,"sections":{`)
	for i, name := range r.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		content, err := json.Marshal(r.Sections[name])
		if err != nil {
			return nil, fmt.Errorf("marshal section %q: %w", name, err)
		}
		buf.Write(content)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// Save writes the report as indented JSON
func (r *Report) Save(filename string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(filename, data, 0o644)
}

// Explanation is a detailed account of a single causal relationship,
// elicited in one low-temperature completion.
type Explanation struct {
	Mechanism            string   `json:"mechanism"`
	TimeScale            string   `json:"time_scale"`
	Nature               string   `json:"nature"`
	PotentialConfounders []string `json:"potential_confounders"`
	BoundaryConditions   string   `json:"boundary_conditions"`
	ConfidenceLevel      int      `json:"confidence_level"` // 1-5
	Justification        string   `json:"justification"`
}
