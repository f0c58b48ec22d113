package git

import "errors"

var (
	// ErrUnsupportedMethod is returned by the API
	// transport for any HTTP method other than GET,
	// POST and PATCH. No request is sent.
	ErrUnsupportedMethod = errors.New(
		"unsupported http method",
	)

	// ErrMalformedResponse is returned when a hosting
	// API response lacks a field the commit sequence
	// depends on (a sha or commit id).
	ErrMalformedResponse = errors.New(
		"malformed api response",
	)

	// ErrReferenceUpdate is returned in strict mode
	// when the commit was created but the branch
	// could not be moved to it.
	ErrReferenceUpdate = errors.New(
		"branch reference not updated",
	)

	// ErrInvalidPath is returned for file set entries
	// whose path cannot name a file in a git tree.
	ErrInvalidPath = errors.New("invalid file path")

	// ErrInvalidContent is returned for file content
	// that is not valid UTF-8. Hosting APIs carry
	// content as JSON strings, which cannot hold
	// arbitrary bytes.
	ErrInvalidContent = errors.New("invalid file content")
)
