package rule

import "embed"

// builtinRulesFS embeds the builtin skill-audit rules.
//
//go:embed rules/*.yml
var builtinRulesFS embed.FS
