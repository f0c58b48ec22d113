// Package manifest builds git.FileSet values from the sources the command line
// accepts: JSON or YAML manifest files listing paths with inline content or a
// local source file, and repeated "path=content" / "path=@file" flags.
package manifest
