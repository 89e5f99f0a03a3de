package gesture

// HistoryCapacity is the number of motion samples kept for matching.
const HistoryCapacity = 10

// history is a fixed-capacity ring of motion samples, oldest first. It is
// never empty once initialized.
type history struct {
	data  [HistoryCapacity]MotionSample
	start int
	size  int
}

func newHistory() *history {
	h := &history{}
	h.reset()
	return h
}

func (h *history) reset() {
	h.start = 0
	h.size = 1
	h.data[0] = MotionSample{Direction: None}
}

func (h *history) Len() int { return h.size }

// At returns the i-th sample counted from the oldest.
func (h *history) At(i int) MotionSample {
	return h.data[(h.start+i)%HistoryCapacity]
}

func (h *history) tail() *MotionSample {
	return &h.data[(h.start+h.size-1)%HistoryCapacity]
}

// Push appends a sample, evicting the oldest when full.
func (h *history) Push(m MotionSample) {
	if h.size == HistoryCapacity {
		h.data[h.start] = m
		h.start = (h.start + 1) % HistoryCapacity
		return
	}
	h.data[(h.start+h.size)%HistoryCapacity] = m
	h.size++
}

func (h *history) Slice() []MotionSample {
	out := make([]MotionSample, h.size)
	for i := range out {
		out[i] = h.At(i)
	}
	return out
}
