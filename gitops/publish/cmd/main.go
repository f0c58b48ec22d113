// Command remote_commit commits files to a branch of a
// git hosting platform through its REST API, without a
// local clone.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/byte4ever/remote_commit/gitops/git"
	"github.com/byte4ever/remote_commit/gitops/git/github"
	"github.com/byte4ever/remote_commit/gitops/git/gitlab"
	"github.com/byte4ever/remote_commit/gitops/manifest"
	"github.com/byte4ever/remote_commit/gitops/publish"
)

// sliceFlag implements flag.Value for multi-value
// string flags (repeated --flag=val usage).
type sliceFlag []string

// String returns the flag value as a comma-separated
// string representation.
func (s *sliceFlag) String() string {
	if s == nil {
		return ""
	}

	return strings.Join(*s, ",")
}

// Set appends a value to the slice.
func (s *sliceFlag) Set(val string) error {
	*s = append(*s, val)

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // CLI flag setup is inherently long
func run() error {
	const errCtx = "running remote_commit"

	// Content flags.
	var files sliceFlag

	flag.Var(
		&files,
		"file",
		"File to commit as path=content or "+
			"path=@localfile (repeatable)",
	)

	var manifests sliceFlag

	flag.Var(
		&manifests,
		"manifest",
		"JSON or YAML manifest listing files "+
			"(repeatable)",
	)

	// Message flags.
	message := flag.String(
		"message", "",
		"Commit message; supports {{VAR}} placeholders",
	)

	var stampInfoFiles sliceFlag

	flag.Var(
		&stampInfoFiles,
		"stamp_info_file",
		"Status file with KEY VALUE lines (repeatable)",
	)

	listFiles := flag.Bool(
		"list_files", false,
		"Append the committed paths to the message",
	)

	// Branch and author flags.
	branch := flag.String(
		"branch", "main",
		"Branch that receives the commit",
	)
	authorName := flag.String(
		"author_name", "",
		"Commit author name",
	)
	authorEmail := flag.String(
		"author_email", "",
		"Commit author email",
	)

	// Run flags.
	dryRun := flag.Bool(
		"dry_run", false,
		"Print the tree without committing",
	)
	output := flag.String(
		"output", publish.FormatText,
		"Result format: text or json",
	)

	// Git provider selection.
	gitServer := flag.String(
		"git_server", "github",
		"Git hosting platform: github or gitlab",
	)

	// GitHub-specific flags.
	ghRepoOwner := flag.String(
		"github_repo_owner", "",
		"GitHub repository owner",
	)
	ghRepo := flag.String(
		"github_repo", "",
		"GitHub repository name",
	)
	ghToken := flag.String(
		"github_access_token", "",
		"GitHub personal access token "+
			"(default $GITHUB_TOKEN)",
	)
	ghEnterprise := flag.String(
		"github_enterprise_host", "",
		"GitHub Enterprise hostname",
	)
	ghStrictRef := flag.Bool(
		"github_strict_ref", false,
		"Fail when the branch cannot be moved "+
			"to the new commit",
	)

	// GitLab-specific flags.
	glHost := flag.String(
		"gitlab_host", "",
		"GitLab instance URL",
	)
	glRepo := flag.String(
		"gitlab_repo", "",
		"GitLab project path (org/project)",
	)
	glToken := flag.String(
		"gitlab_access_token", "",
		"GitLab personal access token "+
			"(default $GITLAB_TOKEN)",
	)

	flag.Parse()

	fileSet, err := collectFiles(files, manifests)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	var committer git.Committer

	if !*dryRun {
		committer, err = newCommitter(
			*gitServer,
			providerFlags{
				branch:       *branch,
				authorName:   *authorName,
				authorEmail:  *authorEmail,
				ghRepoOwner:  *ghRepoOwner,
				ghRepo:       *ghRepo,
				ghToken:      envDefault(*ghToken, "GITHUB_TOKEN"),
				ghEnterprise: *ghEnterprise,
				ghStrictRef:  *ghStrictRef,
				glHost:       *glHost,
				glRepo:       *glRepo,
				glToken:      envDefault(*glToken, "GITLAB_TOKEN"),
			},
		)
		if err != nil {
			return fmt.Errorf(
				"%s: create committer: %w", errCtx, err,
			)
		}
	}

	res, runErr := publish.Run(
		context.Background(),
		publish.Config{
			Files:           fileSet,
			MessageTemplate: *message,
			StampInfoFiles:  stampInfoFiles,
			Branch:          *branch,
			ListFiles:       *listFiles,
			DryRun:          *dryRun,
			Committer:       committer,
		},
	)
	if res != nil {
		if err := res.Write(os.Stdout, *output); err != nil {
			return errors.Join(
				fmt.Errorf("%s: %w", errCtx, err),
				runErr,
			)
		}
	}

	if runErr != nil {
		return fmt.Errorf("%s: %w", errCtx, runErr)
	}

	return nil
}

// collectFiles merges -file flags and manifests into a
// single file set.
func collectFiles(
	files []string,
	manifests []string,
) (git.FileSet, error) {
	const errCtx = "collecting files"

	fileSet, err := manifest.FromFlags(files)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, m := range manifests {
		loaded, err := manifest.Load(m)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		if err := manifest.Merge(
			fileSet, loaded,
		); err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, m, err,
			)
		}
	}

	return fileSet, nil
}

// envDefault returns val, or the value of the
// environment variable key when val is empty.
func envDefault(val string, key string) string {
	if val != "" {
		return val
	}

	return os.Getenv(key)
}

// providerFlags bundles provider-specific flag values
// to keep newCommitter under the 4-argument limit.
type providerFlags struct {
	branch       string
	authorName   string
	authorEmail  string
	ghRepoOwner  string
	ghRepo       string
	ghToken      string
	ghEnterprise string
	ghStrictRef  bool
	glHost       string
	glRepo       string
	glToken      string
}

// newCommitter creates a git.Committer based on the
// server name. Pattern: Factory -- selects platform
// implementation at runtime.
func newCommitter(
	server string,
	pf providerFlags,
) (git.Committer, error) {
	const errCtx = "creating git committer"

	switch server {
	case "github":
		c, err := github.NewCommitter(github.Config{
			RepoOwner:      pf.ghRepoOwner,
			Repo:           pf.ghRepo,
			Branch:         pf.branch,
			AccessToken:    pf.ghToken,
			AuthorName:     pf.authorName,
			AuthorEmail:    pf.authorEmail,
			EnterpriseHost: pf.ghEnterprise,
			StrictRef:      pf.ghStrictRef,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return c, nil

	case "gitlab":
		c, err := gitlab.NewCommitter(gitlab.Config{
			Host:        pf.glHost,
			Repo:        pf.glRepo,
			Branch:      pf.branch,
			AccessToken: pf.glToken,
			AuthorName:  pf.authorName,
			AuthorEmail: pf.authorEmail,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return c, nil

	default:
		return nil, fmt.Errorf(
			"%s: unknown server %q", errCtx, server,
		)
	}
}
