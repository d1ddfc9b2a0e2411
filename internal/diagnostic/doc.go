// Package diagnostic turns configuration check results into structured,
// printable reports.
//
// Errors carry a code per failure kind, the field path of the failure and
// "did you mean" suggestions for misspelled keys. Warnings flag mapping
// fields whose current keys a merge would silently drop.
package diagnostic
