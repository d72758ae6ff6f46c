// Package diagnostic collects structured errors, warnings and infos produced
// while importing spreadsheet rows.
//
// Key capabilities:
//   - Rows skipped because a required reference did not resolve
//   - Near-miss suggestions for names that did not resolve
//   - Fallback and best-effort reference reports
//   - Invalid business fields found while decoding rows
package diagnostic
