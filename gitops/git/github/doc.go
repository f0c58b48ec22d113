// Package github implements a git.Committer that commits in-memory files to a
// GitHub branch through the Git Data API (cloud or enterprise).
//
// A commit is four sequential calls: resolve the branch tip, create a tree
// rooted at the tip with the files inlined as blobs, create a commit whose
// single parent is the tip, and force-move the branch to the new commit. The
// tip is read once and reused for both the tree base and the parent. Nothing is
// rolled back: when a later step fails, objects created by earlier steps stay
// on the server unreferenced.
//
// Configure with a Config containing the repository owner, name, branch,
// author identity and access token. Set EnterpriseHost for GitHub Enterprise
// installations.
package github
