package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/attractor/internal/sim"
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
	ID          string             `json:"id"`
	Preset      string             `json:"preset"`
	Quality     string             `json:"quality"`
	Particles   int                `json:"particles"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        uint64             `json:"seed"`
	Multiplier  float64            `json:"multiplier"`
	Frames      int                `json:"frames"`
	Elapsed     float64            `json:"elapsed"`
	Degenerate  int64              `json:"degenerate"`
	Anomalies   int64              `json:"clockAnomalies"`
	Metrics     map[string]float64 `json:"metrics"`
	MetricNames []string           `json:"metricNames"`
}

// FrameRecord is one row of frames.csv.
type FrameRecord struct {
	Index   uint64
	Elapsed float64
	Camera  [3]float64
	Metrics []float64
}

// Recorder collects frame records from a running simulation.
type Recorder struct {
	sim     *sim.Simulation
	names   []string
	Records []FrameRecord
}

// NewRecorder observes s and records the named metrics each frame.
func NewRecorder(s *sim.Simulation) *Recorder {
	names := make([]string, 0)
	for name := range s.Metrics() {
		names = append(names, name)
	}
	sort.Strings(names)
	r := &Recorder{sim: s, names: names}
	s.AddObserver(r)
	return r
}

func (r *Recorder) OnFrame(f *sim.Frame) {
	values := r.sim.Metrics()
	rec := FrameRecord{
		Index:   f.Index,
		Elapsed: f.Elapsed,
		Camera:  f.Camera.Position.Array(),
		Metrics: make([]float64, len(r.names)),
	}
	for i, name := range r.names {
		rec.Metrics[i] = values[name]
	}
	r.Records = append(r.Records, rec)
}

func (r *Recorder) MetricNames() []string { return r.names }

// Save writes metadata.json and, when rec is non-nil, frames.csv. A nil
// recorder stores only the final metric values.
func (s *Store) Save(meta RunMetadata, rec *Recorder) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Quality, time.Now().UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if rec != nil {
		meta.MetricNames = rec.MetricNames()
		meta.Frames = len(rec.Records)
	} else {
		meta.MetricNames = make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			meta.MetricNames = append(meta.MetricNames, name)
		}
		sort.Strings(meta.MetricNames)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	if err := writeMetadata(metaFile, meta); err != nil {
		return "", err
	}

	if rec == nil {
		return meta.ID, nil
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	if err := writeFrames(csvFile, meta.MetricNames, rec.Records); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// writeMetadata encodes meta to wc and closes it. A failed close is an error.
func writeMetadata(wc io.WriteCloser, meta RunMetadata) (err error) {
	defer func() {
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(wc)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// writeFrames writes one csv row per record to wc and closes it.
func writeFrames(wc io.WriteCloser, names []string, records []FrameRecord) (err error) {
	defer func() {
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(wc)
	header := []string{"frame", "elapsed", "cam_x", "cam_y", "cam_z"}
	header = append(header, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			strconv.FormatUint(r.Index, 10),
			strconv.FormatFloat(r.Elapsed, 'f', 6, 64),
		}
		for _, v := range r.Camera {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		for _, v := range r.Metrics {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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

// LoadSeries reads frames.csv into one column per header name.
func (s *Store) LoadSeries(runID string) (map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
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

	series := make(map[string][]float64)
	if len(records) == 0 {
		return series, nil
	}
	header := records[0]
	for _, record := range records[1:] {
		for j, field := range record {
			if j >= len(header) {
				break
			}
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return series, nil
}
