package reconcile

import (
	"fmt"
	"strings"

	"import-reconciler/internal/common"
	"import-reconciler/internal/diagnostic"
	"import-reconciler/internal/match"
)

// Options tune a reconciliation.
type Options struct {
	// Resolver resolves employee names. Nil means match.NewResolver(nil).
	Resolver *match.Resolver
	// FallbackContractID receives rows whose contract reference does not
	// resolve. Empty means no fallback: ContractID stays nil.
	FallbackContractID string
	// SuggestionLimit caps near-miss names attached to skipped rows.
	// Zero disables suggestions.
	SuggestionLimit int
	// MinSuggestionSimilarity is the minimum similarity of a suggestion.
	MinSuggestionSimilarity float64
}

// DefaultOptions returns options with suggestions enabled and no fallback.
func DefaultOptions() Options {
	return Options{
		SuggestionLimit:         match.DefaultSuggestionLimit,
		MinSuggestionSimilarity: match.DefaultMinSimilarity,
	}
}

// ResolvedRow is an import row with its references resolved.
type ResolvedRow[R Row] struct {
	Row        R
	EmployeeID string
	// EmployeeScore is the winning match score, for diagnostics.
	EmployeeScore int
	// ContractID is nil when the reference did not resolve and no fallback
	// was configured, or when the row carried no contract reference.
	ContractID *string
	// ThirdPartyContract preserves the raw contract reference of rows routed
	// to the fallback contract.
	ThirdPartyContract string
	// EquipmentID is nil when the row has no serial, no equipment roster was
	// supplied, or the serial did not resolve.
	EquipmentID *string
}

// Outcome is the result of Reconcile.
type Outcome[R Row] struct {
	// Resolved keeps the input order of the rows that were not dropped.
	Resolved []ResolvedRow[R]
	// Total is the number of input rows.
	Total int
	// UnresolvedCount counts rows dropped because the employee did not resolve.
	UnresolvedCount int
	// FallbackCount counts rows attached to the fallback contract.
	FallbackCount int
	Diagnostics   diagnostic.Diagnostics
}

// Summary renders the counts for a user-facing message.
func (o *Outcome[R]) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d rows imported", len(o.Resolved))

	if o.UnresolvedCount > 0 {
		fmt.Fprintf(&b, ", %d skipped (employee not found)", o.UnresolvedCount)
	}

	if o.FallbackCount > 0 {
		fmt.Fprintf(&b, ", %d attached to the fallback contract", o.FallbackCount)
	}

	return b.String()
}

// Reconcile resolves every row independently against the rosters.
//
// Rows whose employee does not resolve are dropped and counted in
// UnresolvedCount. Contract references are matched against contract
// numbers and client names; on a miss the row goes to FallbackContractID
// when one is set (keeping the raw reference in ThirdPartyContract) and
// keeps a nil ContractID otherwise. Equipment serials are matched only when
// an equipment roster is supplied; a miss never drops a row.
func Reconcile[R Row](rows []R, rosters Rosters, opts Options) Outcome[R] {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = match.NewResolver(nil)
	}

	employees := resolver.Prepare(rosters.Employees)
	contracts := NewContractIndex(rosters.Contracts)

	var equipment referenceIndex
	if rosters.Equipment != nil {
		equipment = newEquipmentIndex(rosters.Equipment)
	}

	out := Outcome[R]{
		Resolved: make([]ResolvedRow[R], 0, len(rows)),
		Total:    len(rows),
	}

	for _, row := range rows {
		refs := row.References()
		line := row.SourceLine()

		m := resolver.ResolveIn(refs.EmployeeName, employees)
		if !m.Matched {
			out.UnresolvedCount++

			var suggestions []string
			if opts.SuggestionLimit > 0 {
				suggestions = resolver.Suggest(refs.EmployeeName, employees,
					opts.SuggestionLimit, opts.MinSuggestionSimilarity).Names()
			}

			out.Diagnostics.AddWarning(diagnostic.CodeEmployeeNotFound,
				fmt.Sprintf("row skipped: no employee matches %q", refs.EmployeeName),
				line, "employee", suggestions...)

			continue
		}

		resolved := ResolvedRow[R]{Row: row, EmployeeID: m.ID, EmployeeScore: m.Score}

		resolveContract(&resolved, refs.ContractRef, contracts, opts.FallbackContractID, line, &out)

		if equipment != nil && strings.TrimSpace(refs.EquipmentSerial) != "" {
			if id, ok := equipment.lookup(refs.EquipmentSerial); ok {
				resolved.EquipmentID = common.Ptr(id)
			} else {
				out.Diagnostics.AddInfo(diagnostic.CodeEquipmentNotFound,
					fmt.Sprintf("no equipment with serial %q", refs.EquipmentSerial), line, "equipment")
			}
		}

		out.Resolved = append(out.Resolved, resolved)
	}

	return out
}

func resolveContract[R Row](
	resolved *ResolvedRow[R],
	ref string,
	contracts *ContractIndex,
	fallbackID string,
	line int,
	out *Outcome[R],
) {
	if strings.TrimSpace(ref) == "" {
		return
	}

	if id, ok := contracts.Lookup(ref); ok {
		resolved.ContractID = common.Ptr(id)

		return
	}

	if fallbackID == "" {
		out.Diagnostics.AddInfo(diagnostic.CodeContractNotFound,
			fmt.Sprintf("no contract matches %q", ref), line, "contract")

		return
	}

	resolved.ContractID = common.Ptr(fallbackID)
	resolved.ThirdPartyContract = ref
	out.FallbackCount++

	out.Diagnostics.AddInfo(diagnostic.CodeContractFallback,
		fmt.Sprintf("contract %q not found, attached to fallback contract", ref), line, "contract")
}
