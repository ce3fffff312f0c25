// Package manifestfile reads manifest objects from files and directories.
package manifestfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/skillcoder/specctl/internal/logic/manifest"
	"github.com/skillcoder/specctl/internal/logic/translator"
)

var extensions = []string{".yaml", ".yml", ".json"}

type Source struct {
	logger *slog.Logger
	paths  []string
}

// New creates a source over paths. A directory is walked recursively and
// every .yaml, .yml or .json file in it is read in lexical order.
func New(logger *slog.Logger, paths ...string) *Source {
	return &Source{
		logger: logger.With("component", "manifestfile"),
		paths:  paths,
	}
}

var _ translator.Source = (*Source)(nil)

func (s *Source) ListObjectsQuery(ctx context.Context) ([]runtime.Object, error) {
	var objs []runtime.Object

	for _, path := range s.paths {
		files, err := s.files(path)
		if err != nil {
			return nil, err
		}

		for _, file := range files {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			read, err := s.readFile(file)
			if err != nil {
				return nil, err
			}

			s.logger.InfoContext(ctx, "manifest file read", "path", file, "objects", len(read))

			objs = append(objs, read...)
		}
	}

	return objs, nil
}

func (s *Source) files(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathNotFoundError{Path: path}
		}

		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && slices.Contains(extensions, strings.ToLower(filepath.Ext(p))) {
			files = append(files, p)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}

	slices.Sort(files)

	return files, nil
}

func (s *Source) readFile(path string) ([]runtime.Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	objs, err := manifest.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return objs, nil
}
