// Package git defines the contract for committing in-memory files to a git
// hosting platform without a local clone.
//
// The Committer interface abstracts the platform. Implementations exist for
// GitHub (Git Data API) and GitLab (commits API) in sub-packages.
// CommitterFunc is a convenience adapter that lets plain functions satisfy the
// interface.
//
// FileSet is the unit of work: a map from repository-relative path to file
// content. Failures the platforms can produce are declared as sentinel errors
// (ErrUnsupportedMethod, ErrMalformedResponse, ErrReferenceUpdate,
// ErrInvalidPath) and are matched with errors.Is.
package git
