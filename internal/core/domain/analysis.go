package domain

import "time"

// AnalysisRecord is the options snapshot stored with a project's analysis.
type AnalysisRecord struct {
	Project     string           `json:"project,omitzero"`
	Options     IncOptionsRecord `json:"options"`
	Fingerprint string           `json:"fingerprint,omitzero"`
	Timestamp   time.Time        `json:"timestamp,omitzero"`
}

// OptionsStatus compares the current options with those of the last recorded analysis.
type OptionsStatus struct {
	Project  string
	Current  IncOptions
	Previous Optional[IncOptions]
	// Changed lists the fields that differ from the previous options.
	// It is empty when there is no previous analysis.
	Changed []string
}

// UpToDate reports whether a previous analysis exists and its options match the current ones.
func (s OptionsStatus) UpToDate() bool {
	return s.Previous.IsPresent() && len(s.Changed) == 0
}
