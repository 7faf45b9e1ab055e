// Package plan persists the outcome of a placement run as a JSON
// document.
//
// A plan captures everything needed to reproduce or render a run
// without re-executing it: the configuration that produced it, the
// clusters that went in, and the full placement result that came out.
// Plans round-trip losslessly through [Write] and [Read], so a run can
// be placed once and rendered many times.
package plan

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/label"
	"github.com/stormlabel/stormlabel/pkg/place"
)

// Version is the plan document schema version. Readers reject
// documents with a different version rather than guessing.
const Version = 1

// Config echoes the placement configuration that produced a plan.
type Config struct {
	Metrics   label.Metrics   `json:"metrics"`
	Heuristic place.Heuristic `json:"heuristic"`
	Resolver  place.Resolver  `json:"resolver"`
}

// ConfigFrom extracts the serializable parts of engine options.
func ConfigFrom(opts place.Options) Config {
	return Config{
		Metrics:   opts.Metrics,
		Heuristic: opts.Heuristic,
		Resolver:  opts.Resolver,
	}
}

// Document is a complete placement run: inputs, configuration, and
// result.
type Document struct {
	Version   int       `json:"version"`
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`

	Config   Config          `json:"config"`
	Clusters []place.Cluster `json:"clusters"`
	Result   *place.Result   `json:"result"`
}

// New assembles a document for a finished run with a fresh run id.
func New(cfg Config, clusters []place.Cluster, result *place.Result) *Document {
	return &Document{
		Version:   Version,
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Clusters:  clusters,
		Result:    result,
	}
}

// Validate checks the structural invariants a reader relies on.
func (d *Document) Validate() error {
	if d.Version != Version {
		return errors.New(errors.ErrCodeUnsupported, "plan version %d is not supported (want %d)", d.Version, Version)
	}
	if _, err := uuid.Parse(d.RunID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "plan run id %q is not a valid uuid", d.RunID)
	}
	if d.Result == nil {
		return errors.New(errors.ErrCodeInvalidFormat, "plan has no result")
	}
	return nil
}

// Write encodes the document as indented JSON.
func Write(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode plan")
	}
	return nil
}

// WriteFile writes the document to a JSON file at path.
func WriteFile(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return Write(d, f)
}

// Read decodes and validates a plan document from r. The returned
// document is independent of r; Read does not close r.
func Read(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode plan")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadFile opens, decodes, and validates a plan file at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}
