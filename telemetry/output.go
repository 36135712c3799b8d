package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/hyphae/components"
	"github.com/pthm-cable/hyphae/config"
)

// NodeRecord is one row of nodes.csv.
type NodeRecord struct {
	ID        int     `csv:"id"`
	Branch    int     `csv:"branch"`
	X         float64 `csv:"x"`
	Y         float64 `csv:"y"`
	Radius    float64 `csv:"radius"`
	Direction float64 `csv:"direction"`
	Spawned   bool    `csv:"spawned"`
	R         int     `csv:"r"`
	G         int     `csv:"g"`
	B         int     `csv:"b"`
}

// NewNodeRecord flattens n for CSV export.
func NewNodeRecord(n *components.Node) NodeRecord {
	return NodeRecord{
		ID:        n.ID,
		Branch:    n.Branch,
		X:         n.Circle.Center.X,
		Y:         n.Circle.Center.Y,
		Radius:    n.Circle.Radius,
		Direction: n.Direction,
		Spawned:   n.Spawned,
		R:         int(n.Color.R),
		G:         int(n.Color.G),
		B:         int(n.Color.B),
	}
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	perfFile      *os.File

	// Track if headers have been written
	telemetryHeaderWritten bool
	perfHeaderWritten      bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.telemetryFile, []WindowStats{stats}, &om.telemetryHeaderWritten); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.perfFile, []PerfStatsCSV{stats.ToCSV(windowEnd)}, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteNodes dumps nodes to nodes.csv, replacing any previous dump.
func (om *OutputManager) WriteNodes(nodes []components.Node) error {
	if om == nil {
		return nil
	}

	records := make([]NodeRecord, len(nodes))
	for i := range nodes {
		records[i] = NewNodeRecord(&nodes[i])
	}

	f, err := os.Create(filepath.Join(om.dir, "nodes.csv"))
	if err != nil {
		return fmt.Errorf("creating nodes.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing nodes: %w", err)
	}
	return nil
}

// writeRecords appends records to f, emitting the header on first use only.
func writeRecords[T any](f *os.File, records []T, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	if om.telemetryFile != nil {
		if err := om.telemetryFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
