// Package match ranks configuration keys by similarity to produce
// "did you mean" suggestions for unknown keys.
//
// Keys are compared after normalization (case folding, separator removal)
// with a normalized Levenshtein score in [0, 1].
package match
