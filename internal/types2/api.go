// Package types2 implements the semantic analysis of PSI programs: scopes,
// name resolution, type inference and coercion, and definite assignment.
package types2

import "github.com/you-not-fish/psi/internal/syntax"

// Config specifies the configuration for checking.
type Config struct {
	// Lines is the source listing attached to diagnostics.
	Lines []string
}

// Check analyzes prog and annotates it in place: every expression gets its
// type, implicit conversions become *syntax.Cast nodes, and declarations
// get their assignment flags.
//
// The first problem aborts the analysis and is returned as a *syntax.Error.
// Checking an already checked tree again is allowed and changes nothing.
func Check(prog *syntax.Program, conf *Config) error {
	if conf == nil {
		conf = &Config{}
	}
	c := &checker{lines: conf.Lines}
	return c.program(prog)
}
