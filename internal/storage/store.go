package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/forcegraph/internal/experiment"
	"github.com/san-kum/forcegraph/internal/layout"
)

var ErrMalformed = errors.New("storage: malformed run file")

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
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Nodes      int                `json:"nodes"`
	Edges      int                `json:"edges"`
	Forces     []string           `json:"forces"`
	Iterations int                `json:"iterations"`
	Settled    bool               `json:"settled"`
	ElapsedMS  float64            `json:"elapsed_ms"`
	Metrics    map[string]float64 `json:"metrics"`
}

// RunInfo describes the layout a result came from.
type RunInfo struct {
	Preset string
	Edges  int
	Forces []string
}

// Save writes a run directory named after the preset and a short uuid, and
// returns its id.
func (s *Store) Save(info RunInfo, result *experiment.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", info.Preset, uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Preset:     info.Preset,
		Timestamp:  time.Now(),
		Nodes:      len(result.Positions),
		Edges:      info.Edges,
		Forces:     info.Forces,
		Iterations: result.Iterations,
		Settled:    result.Settled,
		ElapsedMS:  float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:    result.Final,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, "positions.csv"), positionRows(result.Positions)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, "history.csv"), historyRows(result)); err != nil {
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

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func positionRows(positions []layout.Position) [][]string {
	rows := [][]string{{"id", "x", "y"}}
	for _, p := range positions {
		rows = append(rows, []string{p.ID, formatFloat(p.X), formatFloat(p.Y)})
	}
	return rows
}

func historyRows(result *experiment.Result) [][]string {
	header := append([]string{"iteration", "alpha"}, result.MetricNames...)
	rows := [][]string{header}
	for _, sample := range result.History {
		row := []string{strconv.Itoa(sample.Iteration), strconv.FormatFloat(sample.Alpha, 'g', -1, 64)}
		for _, v := range sample.Metrics {
			row = append(row, formatFloat(v))
		}
		rows = append(rows, row)
	}
	return rows
}

// List returns the stored runs, newest first. Directories without readable
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (s *Store) LoadPositions(runID string) ([]layout.Position, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []layout.Position{}, nil
	}

	positions := make([]layout.Position, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			return nil, fmt.Errorf("%w: positions row %d", ErrMalformed, i+1)
		}
		x, errX := strconv.ParseFloat(rec[1], 64)
		y, errY := strconv.ParseFloat(rec[2], 64)
		if err := errors.Join(errX, errY); err != nil {
			return nil, fmt.Errorf("%w: positions row %d: %w", ErrMalformed, i+1, err)
		}
		positions = append(positions, layout.Position{ID: rec[0], X: x, Y: y})
	}
	return positions, nil
}

// History is the decoded history.csv of a run.
type History struct {
	Columns    []string
	Iterations []int
	Alpha      []float64
	// Metrics holds one series per metric column, in Columns order.
	Metrics [][]float64
}

// Series returns the named metric series, or nil.
func (h *History) Series(name string) []float64 {
	for i, c := range h.Columns {
		if c == name {
			return h.Metrics[i]
		}
	}
	return nil
}

func (s *Store) LoadHistory(runID string) (*History, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, fmt.Errorf("%w: history header", ErrMalformed)
	}

	cols := records[0][2:]
	h := &History{Columns: cols, Metrics: make([][]float64, len(cols))}
	for i, rec := range records[1:] {
		if len(rec) != len(cols)+2 {
			return nil, fmt.Errorf("%w: history row %d", ErrMalformed, i+1)
		}
		it, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: history row %d: %w", ErrMalformed, i+1, err)
		}
		alpha, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: history row %d: %w", ErrMalformed, i+1, err)
		}
		h.Iterations = append(h.Iterations, it)
		h.Alpha = append(h.Alpha, alpha)
		for j := range cols {
			v, err := strconv.ParseFloat(rec[j+2], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: history row %d: %w", ErrMalformed, i+1, err)
			}
			h.Metrics[j] = append(h.Metrics[j], v)
		}
	}
	return h, nil
}
