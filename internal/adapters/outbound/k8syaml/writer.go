// Package k8syaml writes converted compose services as cluster-native YAML.
package k8syaml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/skillcoder/specctl/internal/logic/compose"
)

var (
	ErrMarshal = errors.New("marshal manifest")
	ErrWrite   = errors.New("write manifest")
)

const documentSeparator = "---\n"

type Writer struct {
	logger    *slog.Logger
	outputDir string
}

func New(logger *slog.Logger, outputDir string) *Writer {
	return &Writer{
		logger:    logger.With("component", "k8s-yaml"),
		outputDir: outputDir,
	}
}

// WriteCommand writes each manifest to <out>/<service>/<service>_<part>.yaml.
func (w *Writer) WriteCommand(ctx context.Context, manifests []compose.Manifest) error {
	for _, m := range manifests {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := Marshal(m.Object)
		if err != nil {
			return fmt.Errorf("%s/%s: %w", m.Service, m.Part, err)
		}

		dir := filepath.Join(w.outputDir, m.Service)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}

		path := filepath.Join(dir, m.Service+"_"+m.Part+".yaml")
		if err := os.WriteFile(path, append(data, documentSeparator...), 0o644); err != nil { //nolint:gosec // manifests carry no secrets
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}

		w.logger.DebugContext(ctx, "manifest written", "path", path)
	}

	w.logger.InfoContext(ctx, "manifests written", "dir", w.outputDir, "count", len(manifests))

	return nil
}

// Encode writes all manifests as one multi-document stream.
func Encode(out io.Writer, manifests []compose.Manifest) error {
	for i, m := range manifests {
		data, err := Marshal(m.Object)
		if err != nil {
			return fmt.Errorf("%s/%s: %w", m.Service, m.Part, err)
		}

		if i > 0 {
			if _, err := io.WriteString(out, documentSeparator); err != nil {
				return fmt.Errorf("%w: %w", ErrWrite, err)
			}
		}

		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}

	return nil
}

// Marshal renders obj as YAML without the status block and the empty
// creation timestamp typed objects always carry.
func Marshal(obj runtime.Object) ([]byte, error) {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}

	delete(content, "status")
	unstructured.RemoveNestedField(content, "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(content, "spec", "template", "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(content, "spec", "strategy")

	data, err := yaml.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}

	return data, nil
}
