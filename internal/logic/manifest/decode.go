// Package manifest turns generic manifest documents into the closed set of
// typed objects the engine understands.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	utiljson "k8s.io/apimachinery/pkg/util/json"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
)

const (
	KindDeployment          = "Deployment"
	KindPod                 = "Pod"
	KindService             = "Service"
	KindConfigMap           = "ConfigMap"
	KindSecret              = "Secret"
	KindServiceAccount      = "ServiceAccount"
	KindIngress             = "Ingress"
	KindSecurityGroupPolicy = "SecurityGroupPolicy"

	decoderBufferSize = 4096
)

var (
	ErrDecode      = errors.New("decode manifest")
	ErrMissingKind = errors.New("document has no kind")
)

// Kinds lists every kind with a typed variant.
func Kinds() []string {
	return []string{
		KindDeployment,
		KindPod,
		KindService,
		KindConfigMap,
		KindSecret,
		KindServiceAccount,
		KindIngress,
		KindSecurityGroupPolicy,
	}
}

func newTyped(kind string) runtime.Object {
	switch kind {
	case KindDeployment:
		return &appsv1.Deployment{}
	case KindPod:
		return &corev1.Pod{}
	case KindService:
		return &corev1.Service{}
	case KindConfigMap:
		return &corev1.ConfigMap{}
	case KindSecret:
		return &corev1.Secret{}
	case KindServiceAccount:
		return &corev1.ServiceAccount{}
	case KindIngress:
		return &networkingv1.Ingress{}
	case KindSecurityGroupPolicy:
		return &SecurityGroupPolicy{}
	default:
		return nil
	}
}

// Decode converts one generic document into its typed variant.
// Documents of an unknown kind are returned unchanged so the engine can
// report them.
func Decode(u *unstructured.Unstructured) (runtime.Object, error) {
	kind := u.GetKind()
	if kind == "" {
		return nil, ErrMissingKind
	}

	obj := newTyped(kind)
	if obj == nil {
		return u, nil
	}

	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, obj); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrDecode, kind, u.GetName(), err)
	}

	return obj, nil
}

// ReadDocuments reads every YAML or JSON document of r. List documents are
// flattened into their items; empty documents are skipped.
func ReadDocuments(r io.Reader) ([]*unstructured.Unstructured, error) {
	dec := utilyaml.NewYAMLOrJSONDecoder(r, decoderBufferSize)

	var docs []*unstructured.Unstructured

	for {
		var doc json.RawMessage

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}

		// utiljson keeps whole numbers as int64, which the typed converter expects.
		var raw map[string]any
		if err := utiljson.Unmarshal(doc, &raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}

		if len(raw) == 0 {
			continue
		}

		u := &unstructured.Unstructured{Object: raw}
		if !u.IsList() {
			docs = append(docs, u)

			continue
		}

		err = u.EachListItem(func(item runtime.Object) error {
			if iu, ok := item.(*unstructured.Unstructured); ok {
				docs = append(docs, iu)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: list items: %w", ErrDecode, err)
		}
	}
}

// Parse reads r and decodes every document. A document that fails to decode
// is returned as a Rejected; only an unreadable stream fails the read.
func Parse(r io.Reader) ([]runtime.Object, error) {
	docs, err := ReadDocuments(r)
	if err != nil {
		return nil, err
	}

	objs := make([]runtime.Object, 0, len(docs))

	for _, d := range docs {
		objs = append(objs, DecodeOrReject(d))
	}

	return objs, nil
}

// ParseString is Parse over an in-memory document stream.
func ParseString(s string) ([]runtime.Object, error) {
	return Parse(strings.NewReader(s))
}

// KindOf names the kind of obj, falling back to its type meta.
func KindOf(obj runtime.Object) string {
	switch o := obj.(type) {
	case *appsv1.Deployment:
		return KindDeployment
	case *corev1.Pod:
		return KindPod
	case *corev1.Service:
		return KindService
	case *corev1.ConfigMap:
		return KindConfigMap
	case *corev1.Secret:
		return KindSecret
	case *corev1.ServiceAccount:
		return KindServiceAccount
	case *networkingv1.Ingress:
		return KindIngress
	case *SecurityGroupPolicy:
		return KindSecurityGroupPolicy
	case *Rejected:
		return o.Doc.GetKind()
	}

	if obj == nil {
		return ""
	}

	if k := obj.GetObjectKind().GroupVersionKind().Kind; k != "" {
		return k
	}

	return fmt.Sprintf("%T", obj)
}
