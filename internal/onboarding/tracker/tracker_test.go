package tracker

import (
	"testing"

	"employee-onboarding/internal/onboarding/section"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Lifecycle(t *testing.T) {
	tr := New()
	assert.False(t, tr.Submitted(section.Address))

	rec := &section.ResidentialAddress{Village: "Kumily"}
	tr.MarkSubmitted(section.Address, "addr-1", rec)

	st := tr.Get(section.Address)
	assert.True(t, st.Submitted)
	assert.Equal(t, "addr-1", st.RemoteID)

	// the snapshot is a copy
	rec.Village = "Thekkady"
	assert.Equal(t, "Kumily", st.Snapshot.(*section.ResidentialAddress).Village)

	// update without a new id keeps the old one
	tr.MarkSubmitted(section.Address, "", rec)
	st = tr.Get(section.Address)
	assert.Equal(t, "addr-1", st.RemoteID)
	assert.Equal(t, "Thekkady", st.Snapshot.(*section.ResidentialAddress).Village)

	// server-issued replacement id wins
	tr.MarkSubmitted(section.Address, "addr-2", rec)
	assert.Equal(t, "addr-2", tr.Get(section.Address).RemoteID)

	all := tr.All()
	require.Len(t, all, len(section.Order))
	assert.True(t, all[section.Address].Submitted)
	assert.False(t, all[section.Personal].Submitted)

	tr.Reset()
	assert.False(t, tr.Submitted(section.Address))
	assert.Empty(t, tr.Get(section.Address).RemoteID)
}
