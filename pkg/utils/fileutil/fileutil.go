package fileutil

// Releaser releases an advisory file lock.
type Releaser interface {
	Release() error
}
