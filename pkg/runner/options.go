// Package runner checks many files concurrently: it discovers the files a
// set of paths names and runs a ProcessFunc over them with a worker pool.
package runner

// Options controls discovery and concurrency.
type Options struct {
	// Paths are the user-specified files or directories. Defaults to ".".
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions selects files found while walking directories (lowercase,
	// with leading dot). Files named directly in Paths are always included.
	Extensions []string

	// ExcludeGlobs skip files or directories whose path relative to
	// WorkingDir matches. "**" crosses directory boundaries.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the maximum number of concurrent workers; 0 means NumCPU.
	Jobs int
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
