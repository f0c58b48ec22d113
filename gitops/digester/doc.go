// Package digester computes git blob object ids for in-memory file content so
// that the tree a commit will produce can be previewed without contacting the
// hosting platform.
package digester
