package rule

import "gopkg.in/yaml.v3"

// yamlRulesFile is the top-level structure of a rule YAML file.
type yamlRulesFile struct {
	Rules []yamlRule `yaml:"rules"`
}

// yamlRule is the on-disk rule shape. Pattern entries are discriminated by
// which key they carry: regex, field or query.
type yamlRule struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	Severity     string        `yaml:"severity"`
	Category     string        `yaml:"category"`
	Message      string        `yaml:"message"`
	Remediation  string        `yaml:"remediation"`
	References   []string      `yaml:"references"`
	Keywords     []string      `yaml:"keywords"`
	ContextGate  string        `yaml:"contextGate"`
	PerFileLimit bool          `yaml:"perFileLimit"`
	Location     *yamlLocation `yaml:"location"`
	Exclude      []string      `yaml:"exclude"`
	Patterns     []yamlPattern `yaml:"patterns"`
	Disabled     bool          `yaml:"disabled"`
}

// yamlLocation selects the content regions a rule searches.
type yamlLocation struct {
	Include []string `yaml:"include"`
}

// yamlPattern is one pattern entry. Exactly one of Regex, Field or Query is
// set; validation rejects ambiguous entries.
type yamlPattern struct {
	// Textual.
	Regex    string   `yaml:"regex"`
	Flags    string   `yaml:"flags"`
	Suppress []string `yaml:"suppress"`

	// Structured-field. The condition keys mirror FieldCondition.
	// Equals stays a raw node so "equals: false" is distinguishable from
	// an absent key.
	Field    string     `yaml:"field"`
	Exists   *bool      `yaml:"exists"`
	Equals   yaml.Node  `yaml:"equals"`
	Contains string     `yaml:"contains"`
	Matches  string     `yaml:"matches"`

	// Syntax-tree.
	Query    string `yaml:"query"`
	Language string `yaml:"language"`
}
