// Package publish commits a set of in-memory files to a branch of a git hosting
// platform. It renders the commit message template (stamp variables, BRANCH,
// FILE_COUNT, FILES), optionally lists the committed paths in the message,
// previews the resulting tree with blob ids, and delegates the remote commit to
// a git.Committer.
//
// The main entry point is Run, which accepts a Config struct with all
// parameters for the workflow.
package publish
