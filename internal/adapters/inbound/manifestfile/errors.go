package manifestfile

import "fmt"

// PathNotFoundError reports a manifest path that does not exist.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("manifest path %s not found", e.Path)
}

func (e *PathNotFoundError) IsNotFound() {}
