package ports

//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks

// PathResolver maps exec paths to locations on disk.
type PathResolver interface {
	// Resolve returns the absolute path of an exec-root relative path.
	Resolve(execPath string) string
}

// InputMetadataProvider supplies content digests for action inputs.
type InputMetadataProvider interface {
	// Digest returns the content digest of the file or directory at path.
	Digest(path string) ([]byte, error)
}
