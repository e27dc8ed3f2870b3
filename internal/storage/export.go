package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/san-kum/coexist/internal/isotherm"
)

type ExportData struct {
	RunMetadata
	Series []ExportSeries `json:"series"`
}

type ExportSeries struct {
	Temperature float64   `json:"temperature"`
	Volumes     []float64 `json:"volumes"`
	Pressures   []float64 `json:"pressures"`
}

// WindowSeries keeps the defined samples with pmin <= P <= pmax.
func WindowSeries(series []Series, pmin, pmax float64) []Series {
	out := make([]Series, len(series))
	for i, s := range series {
		visible := isotherm.Window(isotherm.Defined(slices.Values(s.Samples)), pmin, pmax)
		out[i] = Series{Temperature: s.Temperature, Samples: isotherm.Collect(visible)}
	}
	return out
}

func WriteSeriesCSV(w io.Writer, series []Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"temperature", "volume", "pressure"}); err != nil {
		return err
	}
	for _, s := range series {
		t := strconv.FormatFloat(s.Temperature, 'g', -1, 64)
		for sample := range isotherm.Defined(slices.Values(s.Samples)) {
			row := []string{
				t,
				strconv.FormatFloat(sample.V, 'g', 10, 64),
				strconv.FormatFloat(sample.P, 'g', 10, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteResultsCSV writes one row per solved temperature.
func WriteResultsCSV(w io.Writer, meta *RunMetadata) error {
	cw := csv.NewWriter(w)

	header := []string{"temperature", "v_liquid", "v_gas", "pressure", "residual", "converged", "iterations", "reason"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range meta.Results {
		row := []string{
			strconv.FormatFloat(r.Temperature, 'f', 4, 64),
			strconv.FormatFloat(r.VLiquid, 'f', 6, 64),
			strconv.FormatFloat(r.VGas, 'f', 6, 64),
			strconv.FormatFloat(r.Pressure, 'f', 6, 64),
			strconv.FormatFloat(r.Residual, 'e', 3, 64),
			strconv.FormatBool(r.Converged),
			strconv.Itoa(r.Iterations),
			r.Reason,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ExportJSON(w io.Writer, meta *RunMetadata, series []Series) error {
	data := ExportData{
		RunMetadata: *meta,
		Series:      make([]ExportSeries, len(series)),
	}
	for i, s := range series {
		es := ExportSeries{
			Temperature: s.Temperature,
			Volumes:     make([]float64, 0, len(s.Samples)),
			Pressures:   make([]float64, 0, len(s.Samples)),
		}
		for sample := range isotherm.Defined(slices.Values(s.Samples)) {
			es.Volumes = append(es.Volumes, sample.V)
			es.Pressures = append(es.Pressures, sample.P)
		}
		data.Series[i] = es
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, meta *RunMetadata, series []Series) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, meta, series)
}
