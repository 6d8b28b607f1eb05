package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/sim"
	"github.com/san-kum/galaxysim/internal/storage"
)

type StarData struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VX          float64 `json:"vx"`
	VY          float64 `json:"vy"`
	Mass        float64 `json:"mass"`
	Brightness  float64 `json:"brightness"`
	Temperature float64 `json:"temperature"`
}

type ExportData struct {
	Info    storage.RunInfo      `json:"info"`
	Steps   int                  `json:"steps"`
	Times   []float64            `json:"times"`
	Frames  [][]StarData         `json:"frames"`
	Series  map[string][]float64 `json:"series"`
	Metrics map[string]float64   `json:"metrics"`
}

func NewExportData(info storage.RunInfo, result *sim.Result) ExportData {
	data := ExportData{
		Info:    info,
		Steps:   result.StepsTaken,
		Times:   result.Times,
		Frames:  make([][]StarData, len(result.Frames)),
		Series:  result.Series,
		Metrics: result.Metrics,
	}
	for i, frame := range result.Frames {
		data.Frames[i] = starData(frame)
	}
	return data
}

func starData(stars []galaxy.Star) []StarData {
	out := make([]StarData, len(stars))
	for i, s := range stars {
		out[i] = StarData{
			X:           s.Pos.X,
			Y:           s.Pos.Y,
			VX:          s.Vel.X,
			VY:          s.Vel.Y,
			Mass:        s.Mass,
			Brightness:  s.Brightness,
			Temperature: s.Temperature,
		}
	}
	return out
}

func WriteJSON(w io.Writer, info storage.RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}

func ExportJSON(path string, info storage.RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result)
}

func ExportJSONStdout(info storage.RunInfo, result *sim.Result) error {
	return WriteJSON(os.Stdout, info, result)
}
