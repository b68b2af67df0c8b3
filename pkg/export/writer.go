package export

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/golang/snappy"
)

// Artifact file format: [Magic:4][Version:1][DataLen:4][Data:N][Checksum:4]
// where Data is snappy-compressed JSON.
var magic = [4]byte{'K', 'R', 'S', 'T'}

const formatVersion = 1

var (
	ErrBadMagic    = errors.New("export: not an artifact file")
	ErrBadVersion  = errors.New("export: unsupported artifact version")
	ErrBadChecksum = errors.New("export: artifact checksum mismatch")
)

// Save writes the artifact to path, compressed and checksummed.
func Save(path string, a *Artifact) (Stats, error) {
	f, err := os.Create(path)
	if err != nil {
		return Stats{}, fmt.Errorf("create artifact %s: %w", path, err)
	}
	defer f.Close()

	stats, err := Write(f, a)
	if err != nil {
		return Stats{}, err
	}
	if err := f.Sync(); err != nil {
		return Stats{}, fmt.Errorf("sync artifact: %w", err)
	}
	return stats, nil
}

// Write serializes the artifact to w.
func Write(w io.Writer, a *Artifact) (Stats, error) {
	if a == nil {
		return Stats{}, errors.New("export: artifact cannot be nil")
	}

	raw, err := json.Marshal(a)
	if err != nil {
		return Stats{}, fmt.Errorf("encode artifact: %w", err)
	}
	compressed := snappy.Encode(nil, raw)

	if _, err := w.Write(magic[:]); err != nil {
		return Stats{}, err
	}
	if _, err := w.Write([]byte{formatVersion}); err != nil {
		return Stats{}, err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(compressed))); err != nil {
		return Stats{}, err
	}
	if _, err := w.Write(compressed); err != nil {
		return Stats{}, err
	}
	if err := binary.Write(w, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return Stats{}, err
	}

	ratio := 0.0
	if len(raw) > 0 {
		ratio = 1 - float64(len(compressed))/float64(len(raw))
	}
	return Stats{
		BytesUncompressed: uint64(len(raw)),
		BytesCompressed:   uint64(len(compressed)),
		CompressionRatio:  ratio,
	}, nil
}

// Load reads an artifact back from path.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read deserializes an artifact from r, verifying the checksum.
func Read(r io.Reader) (*Artifact, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read artifact header: %w", err)
	}
	if [4]byte(header[:4]) != magic {
		return nil, ErrBadMagic
	}
	if header[4] != formatVersion {
		return nil, ErrBadVersion
	}

	var dataLen uint32
	if err := binary.Read(r, binary.BigEndian, &dataLen); err != nil {
		return nil, fmt.Errorf("read artifact length: %w", err)
	}
	compressed := make([]byte, dataLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("read artifact data: %w", err)
	}

	var checksum uint32
	if err := binary.Read(r, binary.BigEndian, &checksum); err != nil {
		return nil, fmt.Errorf("read artifact checksum: %w", err)
	}
	if crc32.ChecksumIEEE(compressed) != checksum {
		return nil, ErrBadChecksum
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &a, nil
}
