// Package measure holds the on-disk format shared by the benchmark
// runner and the analysis tool.
package measure

import (
	"encoding/json"
	"os"
	"time"
)

// Snapshot is one benchmark run: per-iteration wall times in
// milliseconds plus enough metadata to compare runs across engines.
// Digest is a hash over every signature produced in the run; two runs
// with the same parameters, seed and message schedule must agree on it
// no matter which engine they used.
type Snapshot struct {
	Params   string    `json:"params"`
	Engine   string    `json:"engine"`
	Started  time.Time `json:"started"`
	Digest   string    `json:"digest"`
	KeygenMs []float64 `json:"keygen_ms"`
	SignMs   []float64 `json:"sign_ms"`
	VerifyMs []float64 `json:"verify_ms"`
}

// Save writes the snapshot as indented JSON.
func (s *Snapshot) Save(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Load reads a snapshot written by Save.
func Load(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
