package pipeline

import (
	"bytes"
	"os"

	"github.com/stormlabel/stormlabel/pkg/cluster"
	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/hurdat"
	"github.com/stormlabel/stormlabel/pkg/place"
)

// readSource loads archive bytes from disk, translating a missing file
// into a FILE_NOT_FOUND error.
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "archive %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read archive %s", path)
	}
	return data, nil
}

// ParseLandfalls extracts landfalls from the configured source and
// filters them by minimum category.
func ParseLandfalls(opts Options) ([]hurdat.Landfall, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	data := opts.Data
	if len(data) == 0 {
		var err error
		data, err = readSource(opts.Source)
		if err != nil {
			return nil, err
		}
	}

	landfalls, err := hurdat.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if opts.MinCategory > 1 {
		filtered := landfalls[:0]
		for _, l := range landfalls {
			if l.Category >= opts.MinCategory {
				filtered = append(filtered, l)
			}
		}
		landfalls = filtered
	}
	return landfalls, nil
}

// BuildClusters groups landfalls into labeling units and orders them
// for placement: most significant clusters first, so they get first
// pick of label space.
func BuildClusters(landfalls []hurdat.Landfall, opts Options) []place.Cluster {
	opts.SetPlaceDefaults()

	cs, _ := cluster.Run(landfalls, opts.Cluster)
	cluster.SortBySignificance(cs, opts.Reference)

	out := make([]place.Cluster, len(cs))
	for i, c := range cs {
		cats := make([]int, len(c.Landfalls))
		for j, l := range c.Landfalls {
			cats[j] = l.Category
		}
		out[i] = place.Cluster{
			ID:         c.ID,
			Points:     c.Points(),
			Labels:     c.Labels(),
			Categories: cats,
		}
	}
	return out
}
