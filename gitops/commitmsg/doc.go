// Package commitmsg renders commit message templates and embeds the list of
// committed files in commit messages. Templates use {{VAR}} placeholders
// filled from status files ("KEY VALUE" lines) and caller-provided variables.
// The file list is encoded between marker lines so that ExtractFiles can
// recover it from a commit message later.
package commitmsg
