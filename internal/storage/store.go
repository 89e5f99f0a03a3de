package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/selection"
	"github.com/san-kum/headsim/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"time", "yaw", "pitch", "gesture", "target", "state", "progress", "focused", "history_len"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	UUID      string             `json:"uuid"`
	Scenario  string             `json:"scenario"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Gestures  []sim.GestureEvent `json:"gestures"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory named <scenario>_<unix seconds>. A run saved
// in the same second as an existing one gets a short uuid suffix.
func (s *Store) Save(meta RunMetadata, frames []sim.Frame) (string, error) {
	now := s.now()
	id := uuid.New()

	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.Unix())
	if _, err := os.Stat(filepath.Join(s.baseDir, runID)); err == nil {
		runID = fmt.Sprintf("%s_%s", runID, id.String()[:8])
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.UUID = id.String()
	meta.Timestamp = now
	meta.Steps = len(frames)

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFrames(csvFile, frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFrames writes frames as CSV with a header row.
func WriteFrames(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			strconv.FormatFloat(f.Yaw, 'f', 6, 64),
			strconv.FormatFloat(f.Pitch, 'f', 6, 64),
			f.Gesture.String(),
			f.Target,
			f.State.String(),
			strconv.FormatFloat(f.Progress, 'f', 6, 64),
			strconv.FormatBool(f.Focused),
			strconv.Itoa(f.HistoryLen),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames reads back the frames of a run. Step numbers are reassigned
// from row order; raw input and labels are not stored.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadFrames(file)
}

func ReadFrames(in io.Reader) ([]sim.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		f, err := parseFrame(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		f.Step = i
		frames = append(frames, f)
	}

	return frames, nil
}

func parseFrame(record []string) (sim.Frame, error) {
	var f sim.Frame
	var err error

	floats := []struct {
		dst *float64
		src string
	}{
		{&f.Time, record[0]},
		{&f.Yaw, record[1]},
		{&f.Pitch, record[2]},
		{&f.Progress, record[6]},
	}
	for _, fl := range floats {
		if *fl.dst, err = strconv.ParseFloat(fl.src, 64); err != nil {
			return f, err
		}
	}

	if f.Gesture, err = gesture.ParseGesture(record[3]); err != nil {
		return f, err
	}
	f.Target = record[4]
	if f.State, err = selection.ParseState(record[5]); err != nil {
		return f, err
	}
	if f.Focused, err = strconv.ParseBool(record[7]); err != nil {
		return f, err
	}
	if f.HistoryLen, err = strconv.Atoi(record[8]); err != nil {
		return f, err
	}
	return f, nil
}
