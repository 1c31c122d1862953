package directory

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/roomtag/pkg/core"
)

func TestMetrics_CountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	c := newFakeContainer("map")
	cells := row(0, 1, 2)
	carrier := c.place(cells[0], false)
	c.place(cells[1], false)
	room := c.build(cells...)

	d := New(WithMetrics(m))
	assert.Nil(t, d.Room(room))
	assert.Nil(t, d.Room(nil))

	named := core.NewRecord()
	named.CustomName = "Den"
	carrier.anchor.Set(named)
	require.NotNil(t, d.Room(room))
	require.NotNil(t, d.Room(room))
	d.ZoneOrCreate(4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("room", outcomeMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("room", outcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("room", outcomeRecovered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("room", outcomeHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.created.WithLabelValues("zone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anchors))

	delete(c.rooms, cells[0])
	d.Reconcile(c)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconciles))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stale))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.lookup(core.KindRoom, outcomeHit)
		m.create(core.KindZone)
		m.synced(3)
		m.reconciled(ReconcileReport{Stale: 1})
	})
}

func TestState_Introspection(t *testing.T) {
	d := New(WithOwner("map-1"))
	d.ZoneOrCreate(1)
	d.Reconcile(newFakeContainer("map-1"))

	st, ok := d.State().(State)
	require.True(t, ok)
	assert.Equal(t, "map-1", st.Owner)
	assert.Equal(t, 1, st.Zones)
	assert.Equal(t, uint64(1), st.Reconciles)
	assert.NotNil(t, st.LastReconcile)
	assert.Equal(t, "directory", d.ComponentType())
}
