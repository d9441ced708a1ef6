// Package allocation is the facade (component H): it wires
// validation, outcome construction, constraint assembly, the
// combinatorial driver, the selector, and the analyzer into the two
// public operations — Allocate and Analyze — and exposes them over
// HTTP.
package allocation

import "github.com/aristath/charlie/internal/domain"

// AllocateRequest is the wire shape accepted by POST /allocate and the
// CLI's "allocate" subcommand; it is domain.AllocationInput verbatim,
// aliased here so the package's public surface is self-contained.
type AllocateRequest = domain.AllocationInput

// AnalyzeRequest is the wire shape accepted by POST /analyze and the
// CLI's "analyze" subcommand: a portfolio of already-decided
// fractions, analyzed without running the solver.
type AnalyzeRequest = domain.Portfolio
