// Package detect holds the obfuscation heuristics: the fixed pattern tables
// and the per-line analysis that turns file content into findings. It has no
// knowledge of where content comes from.
package detect
