package k8s

import "errors"

var (
	ErrBuildConfig = errors.New("build cluster config")
	ErrList        = errors.New("list cluster objects")
)

// NamespaceNotFoundError reports that none of the requested namespaces
// exists in the cluster. It is a warning case rather than a failure.
type NamespaceNotFoundError struct {
	Namespaces []string
}

func (e *NamespaceNotFoundError) Error() string {
	return "namespaces not found"
}

func (e *NamespaceNotFoundError) IsNotFound() {}
