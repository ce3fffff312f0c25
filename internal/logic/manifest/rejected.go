package manifest

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Rejected stands in for a document that could not be decoded. It travels
// with the other objects so the engine can report it and carry on.
type Rejected struct {
	Doc *unstructured.Unstructured
	Err error
}

func (r *Rejected) GetObjectKind() schema.ObjectKind {
	return r.Doc.GetObjectKind()
}

func (r *Rejected) DeepCopyObject() runtime.Object {
	return &Rejected{Doc: r.Doc.DeepCopy(), Err: r.Err}
}

func (r *Rejected) GetName() string      { return r.Doc.GetName() }
func (r *Rejected) GetNamespace() string { return r.Doc.GetNamespace() }

// DecodeOrReject is Decode that wraps a failing document in a Rejected.
func DecodeOrReject(u *unstructured.Unstructured) runtime.Object {
	obj, err := Decode(u)
	if err != nil {
		return &Rejected{Doc: u, Err: err}
	}

	return obj
}
