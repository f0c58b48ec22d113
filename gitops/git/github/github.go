package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"

	"github.com/byte4ever/remote_commit/gitops/git"
)

// Config holds the settings needed to create a GitHub
// committer. It is copied at construction and never
// modified afterwards.
type Config struct {
	// RepoOwner is the GitHub user or organisation
	// that owns the repository.
	RepoOwner string
	// Repo is the repository name (without owner).
	Repo string
	// Branch is the branch that receives commits.
	Branch string
	// AccessToken is a personal access token or
	// GitHub App token used for authentication.
	AccessToken string
	// AuthorName is the commit author name.
	AuthorName string
	// AuthorEmail is the commit author email.
	AuthorEmail string
	// EnterpriseHost is an optional GitHub Enterprise
	// hostname (e.g. "git.corp.example.com"). Leave
	// empty for github.com.
	EnterpriseHost string
	// BaseURL overrides the API root
	// (e.g. "http://127.0.0.1:8080/"). Takes
	// precedence over EnterpriseHost.
	BaseURL string
	// StrictRef makes Commit return an error wrapping
	// git.ErrReferenceUpdate when the branch could
	// not be moved. The commit sha is returned either
	// way.
	StrictRef bool
}

// Committer commits file sets to a GitHub branch.
//
// Pattern: Strategy -- implements git.Committer.
type Committer struct {
	client    *gh.Client
	repoOwner string
	repo      string
	branch    string
	author    gh.CommitAuthor
	strictRef bool
}

// NewCommitter validates cfg and returns a Committer
// ready to push commits.
func NewCommitter(cfg Config) (*Committer, error) {
	const errCtx = "creating github committer"

	required := []struct {
		name  string
		value string
	}{
		{"repo owner", cfg.RepoOwner},
		{"repo", cfg.Repo},
		{"branch", cfg.Branch},
		{"access token", cfg.AccessToken},
		{"author name", cfg.AuthorName},
		{"author email", cfg.AuthorEmail},
	}

	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf(
				"%s: %s must be set", errCtx, r.name,
			)
		}
	}

	client := gh.NewClient(&http.Client{
		Transport: newTransport(cfg.AccessToken, nil),
	})
	client.UserAgent = git.UserAgent

	switch {
	case cfg.BaseURL != "":
		u, err := url.Parse(
			strings.TrimSuffix(cfg.BaseURL, "/") + "/",
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: base url: %w", errCtx, err,
			)
		}

		client.BaseURL = u

	case cfg.EnterpriseHost != "":
		baseURL := "https://" +
			cfg.EnterpriseHost + "/api/v3/"
		uploadURL := "https://" +
			cfg.EnterpriseHost + "/api/uploads/"

		var err error

		client, err = client.WithEnterpriseURLs(
			baseURL, uploadURL,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: enterprise urls: %w",
				errCtx, err,
			)
		}
	}

	return &Committer{
		client:    client,
		repoOwner: cfg.RepoOwner,
		repo:      cfg.Repo,
		branch:    cfg.Branch,
		author: gh.CommitAuthor{
			Name:  gh.Ptr(cfg.AuthorName),
			Email: gh.Ptr(cfg.AuthorEmail),
		},
		strictRef: cfg.StrictRef,
	}, nil
}

// Commit creates a commit containing files on top of
// the branch tip and force-moves the branch to it.
// Returns the new commit sha.
//
// A failed reference update is logged and does not
// change the returned sha; with StrictRef it is also
// returned as an error wrapping git.ErrReferenceUpdate.
func (c *Committer) Commit(
	ctx context.Context,
	message string,
	files git.FileSet,
) (string, error) {
	const errCtx = "committing to github"

	if err := files.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	baseSHA, err := c.branchTip(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	treeSHA, err := c.createTree(ctx, baseSHA, files)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	commitSHA, err := c.createCommit(
		ctx, message, baseSHA, treeSHA,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := c.updateRef(ctx, commitSHA); err != nil {
		slog.Warn(
			"error updating branch reference",
			"branch", c.branch,
			"commit", commitSHA,
			"error", err,
		)

		if c.strictRef {
			return commitSHA, fmt.Errorf(
				"%s: %w: %w",
				errCtx, git.ErrReferenceUpdate, err,
			)
		}

		return commitSHA, nil
	}

	slog.Info(
		"branch reference updated",
		"branch", c.branch,
		"commit", commitSHA,
	)

	return commitSHA, nil
}

// branchTip returns the sha the branch points to. The
// request targets git/refs/heads/{branch}, the plural
// form GitHub documents for reading a reference.
func (c *Committer) branchTip(
	ctx context.Context,
) (string, error) {
	const errCtx = "resolving branch tip"

	req, err := c.client.NewRequest(
		http.MethodGet,
		fmt.Sprintf(
			"repos/%v/%v/git/%v",
			c.repoOwner, c.repo, escapeRef(c.refName()),
		),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	ref := new(gh.Reference)

	resp, err := c.client.Do(ctx, req, ref)
	if err != nil {
		logResponse(resp)

		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	sha := ref.GetObject().GetSHA()
	if sha == "" {
		return "", fmt.Errorf(
			"%s: %w: object.sha missing",
			errCtx, git.ErrMalformedResponse,
		)
	}

	slog.Info(
		"resolved branch tip",
		"branch", c.branch,
		"sha", sha,
	)

	return sha, nil
}

// createTree uploads one inline blob entry per file on
// top of baseSHA and returns the tree sha.
func (c *Committer) createTree(
	ctx context.Context,
	baseSHA string,
	files git.FileSet,
) (string, error) {
	const errCtx = "creating tree"

	entries := make([]*gh.TreeEntry, 0, len(files))

	for _, p := range files.Paths() {
		entries = append(entries, &gh.TreeEntry{
			Path:    gh.Ptr(p),
			Mode:    gh.Ptr(git.ModeFile),
			Type:    gh.Ptr(git.TypeBlob),
			Content: gh.Ptr(files[p]),
		})
	}

	tree, resp, err := c.client.Git.CreateTree(
		ctx, c.repoOwner, c.repo, baseSHA, entries,
	)
	if err != nil {
		logResponse(resp)

		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	sha := tree.GetSHA()
	if sha == "" {
		return "", fmt.Errorf(
			"%s: %w: sha missing",
			errCtx, git.ErrMalformedResponse,
		)
	}

	slog.Info(
		"created tree",
		"sha", sha,
		"entries", len(entries),
	)

	return sha, nil
}

// createCommit records treeSHA as a commit whose only
// parent is parentSHA.
func (c *Committer) createCommit(
	ctx context.Context,
	message string,
	parentSHA string,
	treeSHA string,
) (string, error) {
	const errCtx = "creating commit"

	author := c.author

	commit := &gh.Commit{
		Message: gh.Ptr(message),
		Author:  &author,
		Parents: []*gh.Commit{{SHA: gh.Ptr(parentSHA)}},
		Tree:    &gh.Tree{SHA: gh.Ptr(treeSHA)},
	}

	created, resp, err := c.client.Git.CreateCommit(
		ctx, c.repoOwner, c.repo, commit, nil,
	)
	if err != nil {
		logResponse(resp)

		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	sha := created.GetSHA()
	if sha == "" {
		return "", fmt.Errorf(
			"%s: %w: sha missing",
			errCtx, git.ErrMalformedResponse,
		)
	}

	slog.Info("created commit", "sha", sha)

	return sha, nil
}

// updateRef force-moves the branch to commitSHA.
func (c *Committer) updateRef(
	ctx context.Context,
	commitSHA string,
) error {
	const errCtx = "updating reference"

	ref := &gh.Reference{
		Ref:    gh.Ptr(c.refName()),
		Object: &gh.GitObject{SHA: gh.Ptr(commitSHA)},
	}

	_, resp, err := c.client.Git.UpdateRef(
		ctx, c.repoOwner, c.repo, ref, true,
	)
	if err != nil {
		logResponse(resp)

		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func (c *Committer) refName() string {
	return "refs/heads/" + c.branch
}

// escapeRef path-escapes each segment of ref, keeping
// the slashes between them.
func escapeRef(ref string) string {
	segs := strings.Split(ref, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}

	return strings.Join(segs, "/")
}

// logResponse logs the body of a failed API response
// for debugging.
func logResponse(resp *gh.Response) {
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
		"github response",
		"status", resp.StatusCode,
		"body", string(rb),
	)
}
