package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrSnapshotNotFound is returned by persistent stores for an unknown snapshot name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is a serializable copy of every collection, keyed by user id. It is the
// unit exchanged with persistent stores; each field is stored as one bucket.
type Snapshot struct {
	Solutions     map[int]Solution     `json:"solutions"`
	Exchangers    map[int]Exchange     `json:"exchangers"`
	GasPhases     map[int]GasPhase     `json:"gas_phases"`
	Kinetics      map[int]Kinetics     `json:"kinetics"`
	PPAssemblages map[int]PPAssemblage `json:"pp_assemblages"`
	SSAssemblages map[int]SSAssemblage `json:"ss_assemblages"`
	Surfaces      map[int]Surface      `json:"surfaces"`
	Mixes         map[int]Mix          `json:"mixes"`
	Reactions     map[int]Reaction     `json:"reactions"`
	Temperatures  map[int]Temperature  `json:"temperatures"`
}

// NewSnapshot returns a snapshot with every map allocated.
func NewSnapshot() Snapshot {
	return Snapshot{
		Solutions:     map[int]Solution{},
		Exchangers:    map[int]Exchange{},
		GasPhases:     map[int]GasPhase{},
		Kinetics:      map[int]Kinetics{},
		PPAssemblages: map[int]PPAssemblage{},
		SSAssemblages: map[int]SSAssemblage{},
		Surfaces:      map[int]Surface{},
		Mixes:         map[int]Mix{},
		Reactions:     map[int]Reaction{},
		Temperatures:  map[int]Temperature{},
	}
}

// Len returns the number of records held for kind.
func (s Snapshot) Len(kind Kind) int {
	switch kind {
	case KindSolution:
		return len(s.Solutions)
	case KindExchange:
		return len(s.Exchangers)
	case KindGasPhase:
		return len(s.GasPhases)
	case KindKinetics:
		return len(s.Kinetics)
	case KindPPAssemblage:
		return len(s.PPAssemblages)
	case KindSSAssemblage:
		return len(s.SSAssemblages)
	case KindSurface:
		return len(s.Surfaces)
	case KindMix:
		return len(s.Mixes)
	case KindReaction:
		return len(s.Reactions)
	case KindTemperature:
		return len(s.Temperatures)
	}
	return 0
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := NewSnapshot()
	for id, r := range s.Solutions {
		out.Solutions[id] = *r.Clone()
	}
	for id, r := range s.Exchangers {
		out.Exchangers[id] = *r.Clone()
	}
	for id, r := range s.GasPhases {
		out.GasPhases[id] = *r.Clone()
	}
	for id, r := range s.Kinetics {
		out.Kinetics[id] = *r.Clone()
	}
	for id, r := range s.PPAssemblages {
		out.PPAssemblages[id] = *r.Clone()
	}
	for id, r := range s.SSAssemblages {
		out.SSAssemblages[id] = *r.Clone()
	}
	for id, r := range s.Surfaces {
		out.Surfaces[id] = *r.Clone()
	}
	for id, r := range s.Mixes {
		out.Mixes[id] = *r.Clone()
	}
	for id, r := range s.Reactions {
		out.Reactions[id] = *r.Clone()
	}
	for id, r := range s.Temperatures {
		out.Temperatures[id] = *r.Clone()
	}
	return out
}

// Info summarizes the snapshot under name.
func (s Snapshot) Info(name string) SnapshotInfo {
	info := SnapshotInfo{Name: name, Entries: make(map[Kind]int, len(Kinds))}
	for _, kind := range Kinds {
		info.Entries[kind] = s.Len(kind)
	}
	return info
}

func (s *Snapshot) bucket(kind Kind) (any, error) {
	switch kind {
	case KindSolution:
		return &s.Solutions, nil
	case KindExchange:
		return &s.Exchangers, nil
	case KindGasPhase:
		return &s.GasPhases, nil
	case KindKinetics:
		return &s.Kinetics, nil
	case KindPPAssemblage:
		return &s.PPAssemblages, nil
	case KindSSAssemblage:
		return &s.SSAssemblages, nil
	case KindSurface:
		return &s.Surfaces, nil
	case KindMix:
		return &s.Mixes, nil
	case KindReaction:
		return &s.Reactions, nil
	case KindTemperature:
		return &s.Temperatures, nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// MarshalBucket encodes the records of one kind as a JSON object keyed by id.
func (s Snapshot) MarshalBucket(kind Kind) ([]byte, error) {
	b, err := s.bucket(kind)
	if err != nil {
		return nil, err
	}
	return json.Marshal(b)
}

// UnmarshalBucket decodes a bucket payload into the records of one kind. Ids already
// present are overwritten.
func (s *Snapshot) UnmarshalBucket(kind Kind, data []byte) error {
	b, err := s.bucket(kind)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, b); err != nil {
		return fmt.Errorf("decode %s bucket: %w", kind, err)
	}
	return nil
}

// System carries at most one record per kind. Nil fields are absent.
type System struct {
	Solution     *Solution
	Exchange     *Exchange
	GasPhase     *GasPhase
	Kinetics     *Kinetics
	PPAssemblage *PPAssemblage
	SSAssemblage *SSAssemblage
	Surface      *Surface
	Mix          *Mix
	Reaction     *Reaction
	Temperature  *Temperature
}

// Entities returns the present records in dump order.
func (s System) Entities() []Entity {
	var out []Entity
	add := func(present bool, e Entity) {
		if present {
			out = append(out, e)
		}
	}
	add(s.Solution != nil, s.Solution)
	add(s.Exchange != nil, s.Exchange)
	add(s.GasPhase != nil, s.GasPhase)
	add(s.Kinetics != nil, s.Kinetics)
	add(s.PPAssemblage != nil, s.PPAssemblage)
	add(s.SSAssemblage != nil, s.SSAssemblage)
	add(s.Surface != nil, s.Surface)
	add(s.Mix != nil, s.Mix)
	add(s.Reaction != nil, s.Reaction)
	add(s.Temperature != nil, s.Temperature)
	return out
}

// SnapshotInfo describes a stored snapshot.
type SnapshotInfo struct {
	Name    string       `json:"name"`
	Entries map[Kind]int `json:"entries"`
}

// PersistentStore saves and restores named snapshots.
type PersistentStore interface {
	Save(ctx context.Context, name string, snap Snapshot) error
	Load(ctx context.Context, name string) (Snapshot, error)
	List(ctx context.Context) ([]SnapshotInfo, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// SortSnapshotInfos orders infos by name.
func SortSnapshotInfos(infos []SnapshotInfo) {
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
}
