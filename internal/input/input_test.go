package input

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerTicksPerSegment(t *testing.T) {
	tr := (&Trace{Name: "t"}).
		Add(1, 0, 0.1, "a").
		Add(0, 2, 0.05, "b").
		Add(3, 3, 0.001, "c")

	p := NewPlayer(tr, 0.02)
	assert.Equal(t, 5+3+1, p.TotalTicks())

	var xs []float64
	var labels []string
	for {
		x, _, ok := p.Next()
		if !ok {
			break
		}
		xs = append(xs, x)
		labels = append(labels, p.Label())
	}

	assert.Equal(t, []float64{1, 1, 1, 1, 1, 0, 0, 0, 3}, xs)
	assert.Equal(t, "a", labels[0])
	assert.Equal(t, "b", labels[5])
	assert.Equal(t, "c", labels[8])

	_, _, ok := p.Next()
	assert.False(t, ok, "exhausted player stays exhausted")
	assert.Empty(t, p.Label())
}

func TestTraceValidate(t *testing.T) {
	assert.ErrorIs(t, (&Trace{}).Validate(), ErrEmptyTrace)

	bad := (&Trace{}).Add(1, 1, 0, "")
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSegment)

	good := (&Trace{}).Hold(0.5, "")
	assert.NoError(t, good.Validate())
	assert.InDelta(t, 0.5, good.Duration(), 1e-12)
}

func TestTraceFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shake.yaml")
	tr := (&Trace{Name: "shake"}).Shake(2, 0.1)
	require.NoError(t, SaveTrace(path, tr))

	loaded, err := LoadTrace(path)
	require.NoError(t, err)
	assert.Equal(t, tr, loaded)

	_, err = LoadTrace(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestShakeAndNodShapes(t *testing.T) {
	shake := (&Trace{}).Shake(2, 0.1)
	require.Len(t, shake.Segments, 5)
	assert.Equal(t, []float64{-2, 0, 4, 0, -2}, []float64{
		shake.Segments[0].X, shake.Segments[1].X, shake.Segments[2].X, shake.Segments[3].X, shake.Segments[4].X,
	})

	nod := (&Trace{}).Nod(2, 0.1)
	require.Len(t, nod.Segments, 5)
	assert.Equal(t, 2.0, nod.Segments[0].Y, "nod opens looking up")
	assert.Equal(t, -4.0, nod.Segments[2].Y)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	assert.Contains(t, names, "select-and-shake")
	assert.IsIncreasing(t, names)

	for _, name := range names {
		tr, err := r.Get(name)
		require.NoError(t, err, name)
		assert.NoError(t, tr.Validate(), name)
		assert.Equal(t, name, tr.Name)
		assert.NotEmpty(t, r.Describe(name))
	}

	_, err := r.Get("moonwalk")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestKeyboardBursts(t *testing.T) {
	k := NewKeyboard()
	x, y, ok := k.Next()
	assert.True(t, ok)
	assert.Zero(t, x)
	assert.Zero(t, y)

	k.Press(2, -1, 2)
	for i := 0; i < 2; i++ {
		x, y, _ = k.Next()
		assert.Equal(t, 2.0, x)
		assert.Equal(t, -1.0, y)
	}
	x, _, _ = k.Next()
	assert.Zero(t, x)
}
