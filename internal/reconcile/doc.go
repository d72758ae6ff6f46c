// Package reconcile turns freshly parsed import rows that reference
// employees, contracts and equipment by free text into rows carrying
// resolved ids.
//
// Employee names go through match.Resolver and are required: a row whose
// employee does not resolve is dropped and counted. Contract and equipment
// references are matched exactly (case- and accent-insensitive) and are
// best-effort: a contract miss may be routed to a caller-supplied fallback
// contract, an equipment miss leaves the id empty.
//
// Reconcile is a pure function of its arguments. Rosters are plain values
// supplied per call, so concurrent imports need no locking.
package reconcile
