package schema

import "fmt"

// RepositoryAccessError means the repository path does not exist or is not a git repository.
type RepositoryAccessError struct {
	Path string
	Err  error
}

func (e *RepositoryAccessError) Error() string {
	return fmt.Sprintf("cannot access repository %q: %v", e.Path, e.Err)
}

func (e *RepositoryAccessError) Unwrap() error { return e.Err }

// BlameUnavailableError means a single file could not be attributed.
type BlameUnavailableError struct {
	Path string
	Rev  string
	Err  error
}

func (e *BlameUnavailableError) Error() string {
	return fmt.Sprintf("cannot blame %q at %s: %v", e.Path, e.Rev, e.Err)
}

func (e *BlameUnavailableError) Unwrap() error { return e.Err }

// EmptyAttributionError means no attributable lines were found, so shares are undefined.
type EmptyAttributionError struct {
	Files int // Number of files that were blamed
}

func (e *EmptyAttributionError) Error() string {
	return fmt.Sprintf("no attributable lines found in %d blamed files; percentages are undefined", e.Files)
}

// OutputWriteError means the report destination could not be written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("cannot write report to %q: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }
