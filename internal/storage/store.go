package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	metadataFile = "metadata.json"
	starsFile    = "stars.csv"
)

var starsHeader = []string{"time", "frame", "star", "x", "y", "vx", "vy", "mass", "brightness", "temperature"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was produced.
type RunInfo struct {
	Preset      string        `json:"preset,omitempty"`
	Seed        int64         `json:"seed"`
	Stars       int           `json:"stars"`
	Dt          float64       `json:"dt"`
	Steps       int           `json:"steps"`
	SampleEvery int           `json:"sample_every"`
	Rate        float64       `json:"rate"`
	Backend     string        `json:"backend"`
	Params      galaxy.Params `json:"params"`
}

type RunMetadata struct {
	ID         string               `json:"id"`
	Timestamp  time.Time            `json:"timestamp"`
	Info       RunInfo              `json:"info"`
	StepsTaken int                  `json:"steps_taken"`
	Metrics    map[string]float64   `json:"metrics"`
	Times      []float64            `json:"times"`
	Series     map[string][]float64 `json:"series"`
}

// Frame is one sampled snapshot read back from stars.csv.
type Frame struct {
	Time  float64
	Stars []galaxy.Star
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("galaxy_%d_%d", info.Seed, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  now,
		Info:       info,
		StepsTaken: result.StepsTaken,
		Metrics:    result.Metrics,
		Times:      result.Times,
		Series:     result.Series,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeFrames(filepath.Join(runDir, starsFile), result); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("write frames: %w", err)
	}

	return runID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, result *sim.Result) error {
	if len(result.Times) < len(result.Frames) {
		return fmt.Errorf("%d frames but only %d sample times", len(result.Frames), len(result.Times))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(starsHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	for frame, stars := range result.Frames {
		t := format(result.Times[frame])
		for i, st := range stars {
			row := []string{
				t,
				strconv.Itoa(frame),
				strconv.Itoa(i),
				format(st.Pos.X),
				format(st.Pos.Y),
				format(st.Vel.X),
				format(st.Vel.Y),
				format(st.Mass),
				format(st.Brightness),
				format(st.Temperature),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames reads the sampled snapshots of a run back in frame order.
// Rows must list frames in order, starting at zero, and every star must
// pass galaxy.Star.Validate.
func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, starsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(starsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	frames := make([]Frame, 0)
	for line, record := range records {
		if line == 0 {
			continue
		}

		idx, err := strconv.Atoi(record[1])
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("run %s line %d: invalid frame index %q", runID, line+1, record[1])
		}
		// frames are written in order, so a row either continues the
		// current frame or opens the next one
		if idx != len(frames) && idx != len(frames)-1 {
			return nil, fmt.Errorf("run %s line %d: frame %d out of order (have %d)", runID, line+1, idx, len(frames))
		}

		vals, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, line+1, err)
		}

		star := galaxy.Star{
			Pos:         r2.Vec{X: vals[3], Y: vals[4]},
			Vel:         r2.Vec{X: vals[5], Y: vals[6]},
			Mass:        vals[7],
			Brightness:  vals[8],
			Temperature: vals[9],
		}
		if err := star.Validate(); err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, line+1, err)
		}

		if idx == len(frames) {
			frames = append(frames, Frame{Time: vals[0]})
		}
		frames[idx].Stars = append(frames[idx].Stars, star)
	}

	return frames, nil
}

func parseRow(record []string) ([]float64, error) {
	vals := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", starsHeader[i], err)
		}
		vals[i] = v
	}
	return vals, nil
}
