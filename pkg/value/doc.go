// Package value describes configuration values as the validator sees them.
//
// Configuration documents decode into plain Go values: nil, bool, numbers,
// strings, slices and maps. Two shapes have no JSON equivalent and get their
// own representation here: regular expression instances (*regexp.Regexp) and
// function instances (Function, or any Go func).
//
// Objects decoded by the loaders in this module are *Map values, which keep
// the order keys appeared in the source document. Plain Go maps are accepted
// everywhere too; their keys are visited in sorted order so that validation
// output stays deterministic.
package value
