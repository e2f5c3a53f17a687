package store

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sanketkarwalink/nifty-bees-sanket/internal/model"
)

// State is the optional on-disk snapshot of coordinator state. Correctness
// never depends on it: everything here is reconstructible from a fresh
// history fetch.
type State struct {
	Windows map[string][]model.PriceSample `json:"windows"`
	Dips    map[string]model.DipState      `json:"dips"`
	Alerts  map[string]model.AlertState    `json:"alerts"`
	SavedAt time.Time                      `json:"saved_at"`
}

// Load reads the snapshot from a JSON file. Returns an empty state if the
// file doesn't exist.
func Load(path string) (*State, error) {
	empty := &State{
		Windows: make(map[string][]model.PriceSample),
		Dips:    make(map[string]model.DipState),
		Alerts:  make(map[string]model.AlertState),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return nil, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.Windows == nil {
		st.Windows = empty.Windows
	}
	if st.Dips == nil {
		st.Dips = empty.Dips
	}
	if st.Alerts == nil {
		st.Alerts = empty.Alerts
	}
	return &st, nil
}

// Save writes the snapshot to a JSON file.
func Save(path string, st *State) error {
	st.SavedAt = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
