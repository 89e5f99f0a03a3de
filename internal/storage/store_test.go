package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/selection"
	"github.com/san-kum/headsim/internal/sim"
)

func sampleFrames() []sim.Frame {
	return []sim.Frame{
		{Step: 0, Time: 0.02, Yaw: -2, Target: "orb", State: selection.Selecting, Progress: 0.04, HistoryLen: 2},
		{Step: 1, Time: 0.04, Yaw: -4, Gesture: gesture.Shake, Target: "orb", State: selection.Unselected, Progress: 0.46, HistoryLen: 6},
		{Step: 2, Time: 0.06, Pitch: 1.5, State: selection.Unselected, Focused: true, HistoryLen: 7},
	}
}

func fixedStore(t *testing.T, at time.Time) *Store {
	st := New(t.TempDir())
	st.now = func() time.Time { return at }
	require.NoError(t, st.Init())
	return st
}

func TestStoreSaveLoad(t *testing.T) {
	st := fixedStore(t, time.Unix(1700000000, 0))

	meta := RunMetadata{
		Scenario: "select-and-shake",
		Preset:   "default",
		Dt:       0.02,
		Duration: 3,
		Gestures: []sim.GestureEvent{{Step: 1, Time: 0.04, Gesture: gesture.Shake, Target: "orb"}},
		Metrics:  map[string]float64{"gestures_shake": 1},
	}

	runID, err := st.Save(meta, sampleFrames())
	require.NoError(t, err)
	assert.Equal(t, "select-and-shake_1700000000", runID)

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, loaded.ID)
	assert.NotEmpty(t, loaded.UUID)
	assert.Equal(t, 3, loaded.Steps)
	assert.Equal(t, "default", loaded.Preset)
	assert.Equal(t, 1.0, loaded.Metrics["gestures_shake"])
	require.Len(t, loaded.Gestures, 1)
	assert.Equal(t, gesture.Shake, loaded.Gestures[0].Gesture)

	frames, err := st.LoadFrames(runID)
	require.NoError(t, err)
	assert.Equal(t, sampleFrames(), frames)
}

func TestStoreSameSecondRunsDoNotCollide(t *testing.T) {
	st := fixedStore(t, time.Unix(1700000000, 0))

	first, err := st.Save(RunMetadata{Scenario: "idle"}, nil)
	require.NoError(t, err)
	second, err := st.Save(RunMetadata{Scenario: "idle"}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, first+"_"))
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	for i, name := range []string{"nod", "idle"} {
		at := time.Unix(int64(1700000000+i), 0)
		st.now = func() time.Time { return at }
		_, err := st.Save(RunMetadata{Scenario: name}, sampleFrames())
		require.NoError(t, err)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "junk"), 0755))

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "nod", runs[0].Scenario)
	assert.Equal(t, "idle", runs[1].Scenario)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreRunNotFound(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("ghost_1")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadFrames("ghost_1")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestReadFramesRejectsBadRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrames(&buf, sampleFrames()))

	bad := strings.Replace(buf.String(), "selecting", "grabbed", 1)
	_, err := ReadFrames(strings.NewReader(bad))
	assert.Error(t, err)

	frames, err := ReadFrames(strings.NewReader(strings.Join(frameHeader, ",") + "\n"))
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestWriteJSON(t *testing.T) {
	result := &sim.Result{
		Frames:   sampleFrames(),
		Gestures: []sim.GestureEvent{{Step: 1, Gesture: gesture.Shake, Target: "orb"}},
		Metrics:  map[string]float64{"selected_ratio": 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewExport("shake", "", 0.02, 1, result)))

	var decoded ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Steps)
	assert.Equal(t, gesture.Shake, decoded.Frames[1].Gesture)
	assert.Equal(t, selection.Selecting, decoded.Frames[0].State)
	assert.Contains(t, buf.String(), `"gesture": "shake"`)
}
