// Package inputs resolves the run configuration for release pruning.
//
// It reads raw key-value inputs through ConfigurationSource implementations,
// validates cross-field constraints, composes the NamePredicate that decides
// which release names are eligible, and computes the age cutoff from an
// ISO-8601 max-age duration.
package inputs
