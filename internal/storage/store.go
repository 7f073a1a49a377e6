package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// Store persists headless capture runs: metadata JSON alongside the
// staged segments of every tick as CSV.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type CaptureMetadata struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
	Seed          int64     `json:"seed"`
	Ticks         int       `json:"ticks"`
	ParticleCount int       `json:"particle_count"`
	MaxAge        int       `json:"max_age"`
	VelocityScale float64   `json:"velocity_scale"`
	MinMagnitude  float64   `json:"min_magnitude"`
	MaxMagnitude  float64   `json:"max_magnitude"`
	Segments      int       `json:"segments"`
}

// SegmentRecord is one staged draw segment flattened for CSV.
type SegmentRecord struct {
	Tick       int     `csv:"tick"`
	X1         float64 `csv:"x1"`
	Y1         float64 `csv:"y1"`
	X2         float64 `csv:"x2"`
	Y2         float64 `csv:"y2"`
	Magnitude  float64 `csv:"magnitude"`
	ColorIndex int     `csv:"color_index"`
}

func (s *Store) Save(name string, meta CaptureMetadata, segments []SegmentRecord) (string, error) {
	captureID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	dir := filepath.Join(s.baseDir, captureID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta.ID = captureID
	meta.Timestamp = time.Now()
	meta.Segments = len(segments)

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	segFile, err := os.Create(filepath.Join(dir, "segments.csv"))
	if err != nil {
		return "", err
	}
	defer segFile.Close()
	if err := gocsv.Marshal(&segments, segFile); err != nil {
		return "", err
	}

	return captureID, nil
}

func (s *Store) List() ([]CaptureMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []CaptureMetadata{}, nil
		}
		return nil, err
	}

	captures := make([]CaptureMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta CaptureMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		captures = append(captures, meta)
	}
	return captures, nil
}

func (s *Store) Load(captureID string) (*CaptureMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, captureID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta CaptureMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSegments(captureID string) ([]SegmentRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, captureID, "segments.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var records []SegmentRecord
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, err
	}
	return records, nil
}
