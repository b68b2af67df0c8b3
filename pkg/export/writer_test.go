package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/aryawin/karstgen/pkg/formation"
	"github.com/aryawin/karstgen/pkg/geology"
	"github.com/aryawin/karstgen/pkg/network"
)

func sampleArtifact() *Artifact {
	f := &formation.Formation{
		ID:        0,
		Type:      formation.TypeChamber,
		Center:    geology.Vec3{X: 10, Y: -40, Z: 5},
		Radius:    8,
		Height:    6,
		Stability: 0.7,
	}
	return &Artifact{
		RunID:      "f2c7e9d4",
		Seed:       42,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Formations: []*formation.Formation{f},
		Networks: []*network.CaveNetwork{
			{
				ID: "net-0",
				Nodes: []*network.CaveNode{
					{ID: 0, Position: f.Center, Type: network.NodeChamber},
				},
				ConnectivityScore: 1.0,
			},
		},
		FlowPaths: []network.FlowPath{
			{ID: "flow-0-1", SourceNode: 0, Nodes: []int{0, 1}, FlowRate: 3.2},
		},
		Quality: 0.6,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	stats, err := Write(&buf, sampleArtifact())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if stats.BytesCompressed == 0 || stats.BytesUncompressed == 0 {
		t.Error("expected non-zero size statistics")
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Seed != 42 || got.RunID != "f2c7e9d4" {
		t.Errorf("metadata lost: seed=%d runId=%s", got.Seed, got.RunID)
	}
	if len(got.Formations) != 1 || got.Formations[0].Type != formation.TypeChamber {
		t.Errorf("formations lost in round trip")
	}
	if len(got.Networks) != 1 || got.Networks[0].ConnectivityScore != 1.0 {
		t.Errorf("networks lost in round trip")
	}
	if len(got.FlowPaths) != 1 || got.FlowPaths[0].FlowRate != 3.2 {
		t.Errorf("flow paths lost in round trip")
	}
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.karst")

	if _, err := Save(path, sampleArtifact()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Seed != 42 {
		t.Errorf("expected seed 42, got %d", got.Seed)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, sampleArtifact()); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	data[0] = 'X'

	if _, err := Read(bytes.NewReader(data)); err != ErrBadMagic {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}

func TestReadRejectsCorruptedData(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, sampleArtifact()); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	// Flip a payload byte; the checksum must catch it.
	data[len(data)-6] ^= 0xFF

	if _, err := Read(bytes.NewReader(data)); err != ErrBadChecksum {
		t.Errorf("expected ErrBadChecksum, got %v", err)
	}
}

func TestWriteNilArtifact(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, nil); err == nil {
		t.Error("nil artifact should be rejected")
	}
}
