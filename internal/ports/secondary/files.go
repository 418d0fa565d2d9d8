package secondary

// FileManager performs the filesystem side effects of a run: scratch
// space, staging of remote files, and the final replace or copy step.
type FileManager interface {
	// ScratchPath returns a fresh path in scratch space with the given
	// extension. The file is not created.
	ScratchPath(ext string) string
	// StageLocal makes the file at path available on local disk and
	// returns the local path plus a cleanup func. For already-local
	// files it returns the path unchanged and a no-op cleanup.
	StageLocal(path string) (local string, cleanup func(), err error)
	// SafeReplace swaps the original for the new content. On any
	// failure the original is restored and an error returned.
	SafeReplace(originalPath, newContentPath string) error
	// KeepCopy places the new content next to the original under a
	// derived name and returns the path written.
	KeepCopy(originalPath, newContentPath string) (string, error)
	Remove(path string) error
}
