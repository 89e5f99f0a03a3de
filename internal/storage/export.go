package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/headsim/internal/sim"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Preset   string             `json:"preset,omitempty"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Frames   []sim.Frame        `json:"frames"`
	Gestures []sim.GestureEvent `json:"gestures"`
	Metrics  map[string]float64 `json:"metrics"`
}

func NewExport(scenario, preset string, dt, duration float64, result *sim.Result) ExportData {
	return ExportData{
		Scenario: scenario,
		Preset:   preset,
		Dt:       dt,
		Duration: duration,
		Steps:    len(result.Frames),
		Frames:   result.Frames,
		Gestures: result.Gestures,
		Metrics:  result.Metrics,
	}
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
