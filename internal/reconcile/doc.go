// Package reconcile matches participant identities across two record tables.
//
// Reconcile restricts both tables to the identifiers they share, and Merge
// performs the inner join on that identifier with an explicit column
// projection per side. Running Reconcile first guarantees the join neither
// inflates nor silently drops rows relative to the reported overlap.
package reconcile
