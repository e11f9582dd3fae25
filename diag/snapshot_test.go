package diag

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/chazu/objkit/rt"
)

type probe struct {
	rt.Header
}

func TestCaptureCountsLiveInstances(t *testing.T) {
	table := rt.NewClassTable()
	id := table.Register(&rt.Class{Name: "Probe"})

	var live []*probe
	for i := 0; i < 3; i++ {
		p := &probe{}
		table.Init(p, id, rt.Mutable)
		live = append(live, p)
	}
	rt.Release(live[0])

	s := Capture(table)
	require.Equal(t, FormatVersion, s.Format)
	require.Equal(t, Session(), s.Session)
	require.EqualValues(t, 2, s.Live)

	c, ok := s.Class("Probe")
	require.True(t, ok)
	require.EqualValues(t, id, c.ID)
	require.EqualValues(t, 3, c.Created)
	require.EqualValues(t, 1, c.Destroyed)
	require.EqualValues(t, 2, c.Live)

	_, ok = s.Class("Missing")
	require.False(t, ok)

	rt.Release(live[1])
	rt.Release(live[2])
}

func TestSnapshotRoundTrip(t *testing.T) {
	table := rt.NewClassTable()
	table.Register(&rt.Class{Name: "A"})
	table.Register(&rt.Class{Name: "B"})

	s := Capture(table)
	data, err := Marshal(s)
	require.NoError(t, err)

	again, err := Marshal(s)
	require.NoError(t, err)
	require.Equal(t, data, again, "canonical encoding should be deterministic")

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, s.Session, got.Session)
	require.True(t, s.TakenAt.Equal(got.TakenAt))
	require.Len(t, got.Classes, 2)
	require.Equal(t, "B", got.Classes[1].Name)
}

func TestUnmarshalRejectsIncompatibleFormat(t *testing.T) {
	s := Capture(rt.NewClassTable())
	s.Format = "2.1.0"
	data, err := cbor.Marshal(s)
	require.NoError(t, err)

	_, err = Unmarshal(data)
	require.ErrorContains(t, err, "incompatible")

	_, err = Unmarshal([]byte{0xff, 0x00})
	require.ErrorContains(t, err, "unmarshal snapshot")
}

func TestCheckCompatible(t *testing.T) {
	require.NoError(t, CheckCompatible("1.0.0"))
	require.NoError(t, CheckCompatible("1.4.2"))
	require.Error(t, CheckCompatible("0.9.0"))
	require.Error(t, CheckCompatible("not-a-version"))
}
