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

	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/eos"
	"github.com/san-kum/coexist/internal/isotherm"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "isotherm.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Quadrature string             `json:"quadrature"`
	Timestamp  time.Time          `json:"timestamp"`
	Substance  eos.Substance      `json:"substance"`
	Solver     coexist.Config     `json:"solver"`
	Isotherms  []coexist.Isotherm `json:"isotherms"`
	Results    []coexist.Result   `json:"results"`
}

// Series is the sampled isotherm of one temperature.
type Series struct {
	Temperature float64
	Samples     []isotherm.Sample
}

// Save writes the run metadata and, when series is non-empty, the sampled
// isotherms. Undefined pressures are not written.
func (s *Store) Save(meta RunMetadata, series []Series) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(fmt.Sprintf("%s_%d", meta.Model, now.UnixMilli()))
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSeriesCSV(csvFile, series); err != nil {
		return "", err
	}

	return runID, nil
}

// newRunDir creates a fresh directory for base, appending _2, _3, ... when
// a run saved in the same millisecond already holds the name.
func (s *Store) newRunDir(base string) (string, string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", "", err
	}
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads the sampled isotherms of a run, ordered by temperature.
func (s *Store) LoadSeries(runID string) ([]Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	byTemp := make(map[float64][]isotherm.Sample)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 {
			continue
		}

		vals := make([]float64, 3)
		ok := true
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		byTemp[vals[0]] = append(byTemp[vals[0]], isotherm.Sample{V: vals[1], P: vals[2]})
	}

	temps := make([]float64, 0, len(byTemp))
	for t := range byTemp {
		temps = append(temps, t)
	}
	sort.Float64s(temps)

	series := make([]Series, len(temps))
	for i, t := range temps {
		series[i] = Series{Temperature: t, Samples: byTemp[t]}
	}
	return series, nil
}
