package types

// Location describes where a finding sits within a file.
// Lines and columns are 1-based; zero means unknown.
type Location struct {
	File        string `json:"file"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	StartColumn int    `json:"start_column,omitempty"`
	EndColumn   int    `json:"end_column,omitempty"`
}

// Context carries bounded lines surrounding a finding.
type Context struct {
	Before []string `json:"before,omitempty"`
	After  []string `json:"after,omitempty"`
}

// Finding is one reported occurrence of a rule's condition being met.
// Findings are derived values: severity, category, message, remediation and
// references are copied from the originating rule at creation time, and a
// finding is never mutated afterwards. Identity for deduplication is
// (RuleID, Location.File, Location.StartLine).
type Finding struct {
	RuleID      string   `json:"rule_id"`
	RuleName    string   `json:"rule_name"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category,omitempty"`
	Message     string   `json:"message"`
	Remediation string   `json:"remediation,omitempty"`
	References  []string `json:"references,omitempty"`
	Location    Location `json:"location"`
	Snippet     string   `json:"snippet,omitempty"`
	Context     Context  `json:"context,omitempty"`
}

// Key is the deduplication identity of the finding.
func (f *Finding) Key() FindingKey {
	return FindingKey{
		RuleID:    f.RuleID,
		File:      f.Location.File,
		StartLine: f.Location.StartLine,
	}
}

// FindingKey identifies a finding for deduplication purposes.
type FindingKey struct {
	RuleID    string
	File      string
	StartLine int
}
