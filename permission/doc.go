// Package permission provides the ordered permission-name set held by a
// session and the membership queries evaluated against it.
//
// # Semantics
//
// A [Set] preserves insertion order and keeps duplicates; deduplication is the
// caller's responsibility. Matching is exact and case-sensitive. A nil Set
// means "nothing persisted", an empty non-nil Set is a persisted empty grant;
// both answer every membership query with false except the vacuous
// [Set.HasAll] of an empty name list.
//
// # What this package must NOT do
//
//   - Access storage or the network.
//   - Import goSecurity (no upward imports).
package permission
