// Package commitmsg renders commit messages and embeds
// the list of committed files in them.
package commitmsg

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	begin = "--- committed files begin ---"
	end   = "--- committed files end ---"
)

// LoadStamps reads status files and merges them into a
// single map. Each line is "KEY VALUE" with the first
// space as delimiter. Lines without a space are
// silently skipped; later files win.
func LoadStamps(
	infoFiles []string,
) (map[string]any, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]any)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			parts := strings.SplitN(line, " ", 2)
			if len(parts) == 2 {
				stamps[parts[0]] = parts[1]
			}
		}
	}

	return stamps, nil
}

// Render substitutes {{VAR}} placeholders in tpl with
// values from vars. Unknown placeholders are kept
// as-is.
func Render(tpl string, vars map[string]any) string {
	return fasttemplate.ExecuteStringStd(
		tpl, "{{", "}}", vars,
	)
}

// AppendFileList appends a marker-delimited section
// listing paths to msg.
func AppendFileList(msg string, paths []string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimRight(msg, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(begin)
	sb.WriteByte('\n')

	for _, p := range paths {
		sb.WriteString(p)
		sb.WriteByte('\n')
	}

	sb.WriteString(end)
	sb.WriteByte('\n')

	return sb.String()
}

// ExtractFiles returns the paths listed in the file
// section of msg, or nil when the section is missing
// or unterminated.
func ExtractFiles(msg string) []string {
	var files []string

	betweenMarkers := false

	for _, line := range strings.Split(msg, "\n") {
		switch line {
		case begin:
			betweenMarkers = true
		case end:
			betweenMarkers = false
		default:
			if betweenMarkers {
				files = append(files, line)
			}
		}
	}

	if betweenMarkers {
		slog.Warn(
			"unable to find end marker in commit message",
		)

		return nil
	}

	return files
}
