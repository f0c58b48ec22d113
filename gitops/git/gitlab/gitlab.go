package gitlab

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/remote_commit/gitops/git"
)

// Config holds the settings needed to create a GitLab
// committer.
type Config struct {
	// Host is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	Host string
	// Repo is the full project path
	// (e.g. "org/project") or numeric project id.
	Repo string
	// Branch is the branch that receives commits.
	Branch string
	// AccessToken is a personal or project access
	// token used for authentication.
	AccessToken string
	// AuthorName is the commit author name.
	AuthorName string
	// AuthorEmail is the commit author email.
	AuthorEmail string
}

// Committer commits file sets to a GitLab branch.
//
// Pattern: Strategy -- implements git.Committer.
type Committer struct {
	client      *gl.Client
	repo        string
	branch      string
	authorName  string
	authorEmail string
}

// NewCommitter validates cfg and returns a Committer
// ready to push commits.
func NewCommitter(cfg Config) (*Committer, error) {
	const errCtx = "creating gitlab committer"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	if cfg.Repo == "" {
		return nil, fmt.Errorf(
			"%s: repo must be set", errCtx,
		)
	}

	if cfg.Branch == "" {
		return nil, fmt.Errorf(
			"%s: branch must be set", errCtx,
		)
	}

	if cfg.AuthorName == "" || cfg.AuthorEmail == "" {
		return nil, fmt.Errorf(
			"%s: author name and email must be set",
			errCtx,
		)
	}

	host := cfg.Host
	if host == "" {
		host = "https://gitlab.com"
	}

	client, err := gl.NewClient(
		cfg.AccessToken,
		gl.WithBaseURL(host),
		gl.WithCustomRetryMax(0),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	client.UserAgent = git.UserAgent

	return &Committer{
		client:      client,
		repo:        cfg.Repo,
		branch:      cfg.Branch,
		authorName:  cfg.AuthorName,
		authorEmail: cfg.AuthorEmail,
	}, nil
}

// Commit records files as one commit on the branch and
// returns the commit id. Files already present on the
// branch are updated, the others are created.
func (c *Committer) Commit(
	ctx context.Context,
	message string,
	files git.FileSet,
) (string, error) {
	const errCtx = "committing to gitlab"

	if err := files.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	baseSHA, err := c.branchTip(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	actions, err := c.buildActions(ctx, files)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	opts := &gl.CreateCommitOptions{
		Branch:        gl.Ptr(c.branch),
		CommitMessage: gl.Ptr(message),
		Actions:       actions,
		AuthorName:    gl.Ptr(c.authorName),
		AuthorEmail:   gl.Ptr(c.authorEmail),
	}

	created, resp, err := c.client.Commits.CreateCommit(
		c.repo, opts, gl.WithContext(ctx),
	)
	if err != nil {
		logResponse(resp)

		return "", fmt.Errorf(
			"%s: create commit: %w", errCtx, err,
		)
	}

	if created == nil || created.ID == "" {
		return "", fmt.Errorf(
			"%s: %w: commit id missing",
			errCtx, git.ErrMalformedResponse,
		)
	}

	slog.Info(
		"branch updated",
		"branch", c.branch,
		"base", baseSHA,
		"commit", created.ID,
	)

	return created.ID, nil
}

// branchTip returns the commit id the branch points
// to.
func (c *Committer) branchTip(
	ctx context.Context,
) (string, error) {
	const errCtx = "resolving branch tip"

	branch, resp, err := c.client.Branches.GetBranch(
		c.repo, c.branch, gl.WithContext(ctx),
	)
	if err != nil {
		logResponse(resp)

		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if branch == nil ||
		branch.Commit == nil ||
		branch.Commit.ID == "" {
		return "", fmt.Errorf(
			"%s: %w: commit.id missing",
			errCtx, git.ErrMalformedResponse,
		)
	}

	slog.Info(
		"resolved branch tip",
		"branch", c.branch,
		"sha", branch.Commit.ID,
	)

	return branch.Commit.ID, nil
}

// buildActions returns one commit action per file, in
// path order.
func (c *Committer) buildActions(
	ctx context.Context,
	files git.FileSet,
) ([]*gl.CommitActionOptions, error) {
	const errCtx = "building commit actions"

	actions := make(
		[]*gl.CommitActionOptions, 0, len(files),
	)

	for _, p := range files.Paths() {
		exists, err := c.fileExists(ctx, p)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, p, err,
			)
		}

		action := gl.FileCreate
		if exists {
			action = gl.FileUpdate
		}

		actions = append(actions, &gl.CommitActionOptions{
			Action:   gl.Ptr(action),
			FilePath: gl.Ptr(p),
			Content:  gl.Ptr(files[p]),
		})
	}

	return actions, nil
}

// fileExists reports whether path exists on the
// branch. A 404 means it does not.
func (c *Committer) fileExists(
	ctx context.Context,
	path string,
) (bool, error) {
	_, resp, err := c.client.RepositoryFiles.GetFileMetaData(
		c.repo,
		path,
		&gl.GetFileMetaDataOptions{Ref: gl.Ptr(c.branch)},
		gl.WithContext(ctx),
	)
	if err == nil {
		return true, nil
	}

	if resp != nil &&
		resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	return false, fmt.Errorf("file metadata: %w", err)
}

// logResponse logs the body of a failed API response
// for debugging.
func logResponse(resp *gl.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	defer resp.Body.Close() //nolint:errcheck

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn(
			"cannot read response body",
			"error", err,
		)

		return
	}

	slog.Warn(
		"gitlab response",
		"status", resp.StatusCode,
		"body", string(rb),
	)
}
