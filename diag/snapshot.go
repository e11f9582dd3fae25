// Package diag captures point-in-time snapshots of runtime state and
// encodes them for storage or transfer. Snapshots use canonical CBOR so
// two captures of the same state encode to the same bytes.
package diag

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/chazu/objkit/rt"
)

// FormatVersion is the snapshot format written by this build.
const FormatVersion = "1.0.0"

// compatibleFormats is the range of snapshot formats this build decodes.
const compatibleFormats = "^1.0"

// session identifies the process that produced a snapshot.
var session = uuid.New()

// Session returns the id stamped on every snapshot taken by this process.
func Session() uuid.UUID {
	return session
}

// ClassSnapshot is the state of one registered class.
type ClassSnapshot struct {
	ID           uint32   `cbor:"1,keyasint" json:"id"`
	Name         string   `cbor:"2,keyasint" json:"name"`
	Created      uint64   `cbor:"3,keyasint" json:"created"`
	Destroyed    uint64   `cbor:"4,keyasint" json:"destroyed"`
	Live         int64    `cbor:"5,keyasint" json:"live"`
	Capabilities []string `cbor:"6,keyasint,omitempty" json:"capabilities,omitempty"`
}

// Snapshot is the state of a runtime at one moment.
type Snapshot struct {
	Format              string          `cbor:"1,keyasint" json:"format"`
	Session             uuid.UUID       `cbor:"2,keyasint" json:"session"`
	TakenAt             time.Time       `cbor:"3,keyasint" json:"takenAt"`
	Classes             []ClassSnapshot `cbor:"4,keyasint" json:"classes"`
	Live                int64           `cbor:"5,keyasint" json:"live"`
	ActivePools         int64           `cbor:"6,keyasint" json:"activePools"`
	PendingAutoreleases int64           `cbor:"7,keyasint" json:"pendingAutoreleases"`
	WeakTargets         int             `cbor:"8,keyasint" json:"weakTargets"`
}

// Capture snapshots table, or the default class table when table is nil.
func Capture(table *rt.ClassTable) *Snapshot {
	if table == nil {
		table = rt.Default()
	}
	s := &Snapshot{
		Format:              FormatVersion,
		Session:             session,
		TakenAt:             time.Now().UTC(),
		ActivePools:         rt.ActivePools(),
		PendingAutoreleases: rt.PendingAutoreleases(),
		WeakTargets:         rt.WeakRefCount(),
	}
	for _, cs := range table.Stats() {
		s.Classes = append(s.Classes, ClassSnapshot{
			ID:           uint32(cs.ID),
			Name:         cs.Name,
			Created:      cs.Created,
			Destroyed:    cs.Destroyed,
			Live:         cs.Live,
			Capabilities: cs.Capabilities,
		})
		s.Live += cs.Live
	}
	return s
}

// Class returns the snapshot of the named class.
func (s *Snapshot) Class(name string) (ClassSnapshot, bool) {
	for _, c := range s.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return ClassSnapshot{}, false
}

var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("diag: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes a Snapshot to CBOR bytes.
func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal deserializes a Snapshot from CBOR bytes and checks that its
// format is one this build understands.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("diag: unmarshal snapshot: %w", err)
	}
	if err := CheckCompatible(s.Format); err != nil {
		return nil, err
	}
	return &s, nil
}

// CheckCompatible reports whether a snapshot of the given format version can
// be decoded by this build.
func CheckCompatible(format string) error {
	v, err := semver.NewVersion(format)
	if err != nil {
		return fmt.Errorf("diag: invalid snapshot format %q: %w", format, err)
	}
	c, err := semver.NewConstraint(compatibleFormats)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("diag: snapshot format %s is incompatible with %s", v, FormatVersion)
	}
	return nil
}
