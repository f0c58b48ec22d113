// Package publish commits a file set to a hosting
// platform. It renders the commit message, previews the
// resulting tree, and hands the files to a
// git.Committer.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/remote_commit/gitops/commitmsg"
	"github.com/byte4ever/remote_commit/gitops/digester"
	"github.com/byte4ever/remote_commit/gitops/git"
)

// Output formats accepted by Result.Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds all settings for one publish run.
type Config struct {
	// Files is the content to commit.
	Files git.FileSet

	// MessageTemplate is the commit message. It may
	// contain {{VAR}} placeholders filled from stamp
	// files and from BRANCH, FILE_COUNT and FILES.
	MessageTemplate string

	// StampInfoFiles are "KEY VALUE" status files
	// providing template variables.
	StampInfoFiles []string

	// Branch is the target branch, used in the
	// message template and the result.
	Branch string

	// ListFiles appends the committed paths to the
	// commit message.
	ListFiles bool

	// DryRun skips the remote commit when true.
	DryRun bool

	// Committer records the commit on the hosting
	// platform. Not used on dry runs.
	Committer git.Committer
}

// Result describes a publish run.
type Result struct {
	CommitSHA string           `json:"commit_sha,omitempty"`
	Branch    string           `json:"branch"`
	Message   string           `json:"message"`
	DryRun    bool             `json:"dry_run"`
	Files     []digester.Entry `json:"files"`
}

// Run executes the publish workflow: validate files,
// render the message, preview the tree and commit.
//
// When the committer returns a sha together with an
// error (branch not moved in strict mode) the sha is
// kept in the returned Result.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	const errCtx = "publishing files"

	// Step 1: Validate input.
	if err := cfg.Files.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if !cfg.DryRun && cfg.Committer == nil {
		return nil, fmt.Errorf(
			"%s: committer must be set", errCtx,
		)
	}

	// Step 2: Render the commit message.
	msg, err := renderMessage(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 3: Preview the tree.
	res := &Result{
		Branch:  cfg.Branch,
		Message: msg,
		DryRun:  cfg.DryRun,
		Files:   digester.Preview(cfg.Files),
	}

	if cfg.DryRun {
		slog.Info(
			"dry run: skipping commit",
			"branch", cfg.Branch,
			"files", len(res.Files),
		)

		return res, nil
	}

	// Step 4: Commit.
	sha, err := cfg.Committer.Commit(ctx, msg, cfg.Files)
	res.CommitSHA = sha

	if err != nil {
		if sha != "" &&
			errors.Is(err, git.ErrReferenceUpdate) {
			return res, fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"committed files",
		"branch", cfg.Branch,
		"commit", sha,
		"files", len(res.Files),
	)

	return res, nil
}

// renderMessage expands the message template and
// appends the file list when requested. An empty result
// falls back to git.DefaultMessage.
func renderMessage(cfg Config) (string, error) {
	const errCtx = "rendering commit message"

	vars, err := commitmsg.LoadStamps(cfg.StampInfoFiles)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	paths := cfg.Files.Paths()

	vars["BRANCH"] = cfg.Branch
	vars["FILE_COUNT"] = strconv.Itoa(len(paths))
	vars["FILES"] = strings.Join(paths, ", ")

	msg := commitmsg.Render(cfg.MessageTemplate, vars)
	if strings.TrimSpace(msg) == "" {
		msg = git.DefaultMessage(cfg.Files)
	}

	if cfg.ListFiles {
		msg = commitmsg.AppendFileList(msg, paths)
	}

	return msg, nil
}

// Write prints the result in the given format.
func (r *Result) Write(w io.Writer, format string) error {
	const errCtx = "writing result"

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil

	case FormatText, "":
		if err := r.writeText(w); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil

	default:
		return fmt.Errorf(
			"%s: unknown format %q", errCtx, format,
		)
	}
}

func (r *Result) writeText(w io.Writer) error {
	var sb strings.Builder

	if r.DryRun {
		fmt.Fprintf(
			&sb, "dry run: %d files for %s\n",
			len(r.Files), r.Branch,
		)
	} else {
		fmt.Fprintf(
			&sb, "commit %s (%s)\n",
			r.CommitSHA, r.Branch,
		)
	}

	for _, f := range r.Files {
		fmt.Fprintf(
			&sb, "%s %s %s %8d\t%s\n",
			f.Mode, f.Type, f.BlobID, f.Size, f.Path,
		)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
