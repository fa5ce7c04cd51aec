// Package manifest implements the tree-level metadata document a build
// writes when it flushes its chunks (builder.Builder.Flush saves it after
// the chunks) and a reader loads before issuing any query, so the tree's geometry and schema need not be supplied out of band
// (supplemented from original_source/entwine's Metadata/ept.json, which
// serves the same bootstrap role for the original C++ implementation).
package manifest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pierotofy/entwine/endpoint"
	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/schema"
	"github.com/pierotofy/entwine/structure"
)

// Path is the fixed endpoint path a Manifest is stored under, alongside the
// chunk tree it describes.
const Path = "entwine-manifest.json"

// Manifest describes a tree's fixed geometry and schema: everything a
// reader needs before it can construct a Climber or SplitClimber and start
// resolving chunk paths.
//
// RootMin/RootMax are stored rather than a geom.BBox directly because
// BBox caches its midpoint in an unexported field computed by NewBBox;
// round-tripping it through encoding/json would leave that cache zeroed.
type Manifest struct {
	Structure structure.Structure `json:"structure"`
	RootMin   geom.Point          `json:"rootMin"`
	RootMax   geom.Point          `json:"rootMax"`
	Schema    []schema.Dimension  `json:"schema"`
	NumPoints uint64              `json:"numPoints"`
}

// New builds a Manifest describing st/rootBBox/nativeSchema, with numPoints
// recording the total points written so far (0 at build start).
func New(st structure.Structure, rootBBox geom.BBox, nativeSchema schema.Schema, numPoints uint64) Manifest {
	return Manifest{
		Structure: st,
		RootMin:   rootBBox.Min,
		RootMax:   rootBBox.Max,
		Schema:    nativeSchema.Dimensions(),
		NumPoints: numPoints,
	}
}

// RootBBox reconstructs the tree's root bbox, recomputing the cached
// midpoint NewBBox normally establishes at construction time.
func (m Manifest) RootBBox() geom.BBox {
	return geom.NewBBox(m.RootMin, m.RootMax)
}

// NativeSchema reconstructs a schema.Schema from the manifest's recorded
// dimension list.
func (m Manifest) NativeSchema() schema.Schema {
	return schema.NewFixed(m.Schema)
}

// Save uploads the manifest as JSON via ep, under Path.
func (m Manifest) Save(ctx context.Context, ep *endpoint.Endpoint) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest: marshaling: %w", err)
	}
	return ep.Put(ctx, Path, data)
}

// Load downloads and decodes the manifest from ep.
func Load(ctx context.Context, ep *endpoint.Endpoint) (Manifest, error) {
	data, err := ep.Get(ctx, Path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: unmarshaling: %w", err)
	}
	return m, nil
}
