package export

import (
	"time"

	"github.com/aryawin/karstgen/pkg/formation"
	"github.com/aryawin/karstgen/pkg/network"
)

// Artifact is the persisted form of a generation run: everything a
// consumer needs to rebuild or inspect the cave system without
// rerunning the pipeline.
type Artifact struct {
	RunID      string                 `json:"runId"`
	Seed       int64                  `json:"seed"`
	CreatedAt  time.Time              `json:"createdAt"`
	Formations []*formation.Formation `json:"formations"`
	Networks   []*network.CaveNetwork `json:"networks"`
	FlowPaths  []network.FlowPath     `json:"flowPaths"`
	Warnings   []string               `json:"warnings,omitempty"`
	Quality    float64                `json:"quality"`
}

// Stats holds compression statistics for a written artifact
type Stats struct {
	BytesUncompressed uint64
	BytesCompressed   uint64
	CompressionRatio  float64 // e.g., 0.75 = 75% compression
}
