// Package candidates loads election races and their candidates from JSON files.
package candidates

import (
	"errors"
	"fmt"
)

// ErrRaceNotFound is returned when a race key is absent from the loaded data.
var ErrRaceNotFound = errors.New("race not found")

// Record is one candidate entry as stored in the data files.
type Record struct {
	Name  string `json:"candidates"`
	Party string `json:"party"`
}

// Races maps race names to candidate lists, remembering first-seen key order.
type Races struct {
	order  []string
	byName map[string][]Record
}

// NewRaces returns an empty race set.
func NewRaces() *Races {
	return &Races{byName: map[string][]Record{}}
}

// Set stores records under name. An existing key keeps its position.
func (r *Races) Set(name string, records []Record) {
	if r.byName == nil {
		r.byName = map[string][]Record{}
	}
	if _, ok := r.byName[name]; !ok {
		r.order = append(r.order, name)
	}
	r.byName[name] = records
}

// Merge copies every race of other into r; other wins on collisions.
func (r *Races) Merge(other *Races) {
	if other == nil {
		return
	}
	for _, name := range other.order {
		r.Set(name, other.byName[name])
	}
}

// Names returns race names in listing order.
func (r *Races) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of races.
func (r *Races) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Has reports whether name is a known race.
func (r *Races) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byName[name]
	return ok
}

// Lookup returns the candidates of a race or ErrRaceNotFound.
func (r *Races) Lookup(name string) ([]Record, error) {
	if r == nil {
		return nil, fmt.Errorf("race %q: %w", name, ErrRaceNotFound)
	}
	records, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("race %q: %w", name, ErrRaceNotFound)
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out, nil
}
