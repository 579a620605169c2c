// Package yamlfile writes reconciled records to a YAML document.
package yamlfile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/jkobl1/berlin-is-twitter-data/internal/store"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/constants"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
)

var _ store.Sink = (*Sink)(nil)

// Sink replaces the file at path on every Insert.
type Sink struct {
	path string
}

// New creates a sink writing to path.
func New(path string) (*Sink, error) {
	if path == "" {
		return nil, errors.NewConfigError("yaml", "output_file is required", errors.ErrInvalidInput)
	}
	return &Sink{path: path}, nil
}

// Name implements store.Sink.
func (s *Sink) Name() string {
	return "yaml"
}

// Path returns the output file path.
func (s *Sink) Path() string {
	return s.path
}

// Clear removes the file.
func (s *Sink) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("delete", s.path, err)
	}
	return nil
}

// Insert writes records, collapsed on uniqueKey, through a temporary file
// renamed into place.
func (s *Sink) Insert(ctx context.Context, records []identity.Record, uniqueKey []string) error {
	if err := store.ValidateKey(uniqueKey); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(errors.ErrCanceled, err)
	}

	records = store.Collapse(records, uniqueKey)
	if records == nil {
		records = []identity.Record{}
	}

	data, err := yaml.MarshalWithOptions(records, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".records_*.yaml")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("move", s.path, err)
	}
	return nil
}

// Read loads the records stored at path.
func Read(path string) ([]identity.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var records []identity.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return records, nil
}

// Close implements store.Sink.
func (s *Sink) Close() error {
	return nil
}
