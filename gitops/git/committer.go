package git

import "context"

// Pattern: Strategy -- swap git platform without
// changing the publish logic.

// Committer records a set of files as a single commit
// on a branch of a git hosting platform, without a
// local working tree.
type Committer interface {
	Commit(
		ctx context.Context,
		message string,
		files FileSet,
	) (string, error)
}

// CommitterFunc adapts a plain function to the
// Committer interface. When message is empty
// DefaultMessage is used instead.
type CommitterFunc func(
	ctx context.Context,
	message string,
	files FileSet,
) (string, error)

// Commit delegates to the wrapped function. If message
// is empty, DefaultMessage(files) is substituted.
func (f CommitterFunc) Commit(
	ctx context.Context,
	message string,
	files FileSet,
) (string, error) {
	if message == "" {
		message = DefaultMessage(files)
	}

	return f(ctx, message, files)
}
