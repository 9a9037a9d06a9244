package holdem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeSidePots_NoAllInSinglePot(t *testing.T) {
	pots := ComputeSidePots([]Contribution{
		{PlayerID: "1", Amount: 10},
		{PlayerID: "2", Amount: 10},
		{PlayerID: "3", Amount: 4, Folded: true},
	})
	require.Len(t, pots, 1)
	require.Equal(t, int64(24), pots[0].Amount)
	require.Equal(t, []string{"1", "2"}, pots[0].EligiblePlayerIDs)
}

func TestComputeSidePots_LayersByAllInLevel(t *testing.T) {
	contribs := []Contribution{
		{PlayerID: "1", Amount: 50, AllIn: true},
		{PlayerID: "2", Amount: 100, AllIn: true},
		{PlayerID: "3", Amount: 300},
		{PlayerID: "4", Amount: 300},
		{PlayerID: "5", Amount: 80, Folded: true},
	}
	pots := ComputeSidePots(contribs)
	require.Equal(t, []SidePot{
		{Amount: 250, EligiblePlayerIDs: []string{"1", "2", "3", "4"}},
		{Amount: 180, EligiblePlayerIDs: []string{"2", "3", "4"}},
		{Amount: 400, EligiblePlayerIDs: []string{"3", "4"}},
	}, pots)
	require.Equal(t, int64(830), TotalPot(pots))
}

func TestComputeSidePots_EqualAllInLevelsShareALayer(t *testing.T) {
	pots := ComputeSidePots([]Contribution{
		{PlayerID: "1", Amount: 40, AllIn: true},
		{PlayerID: "2", Amount: 40, AllIn: true},
		{PlayerID: "3", Amount: 40},
	})
	require.Len(t, pots, 1)
	require.Equal(t, int64(120), pots[0].Amount)
	require.Len(t, pots[0].EligiblePlayerIDs, 3)
}

func TestComputeSidePots_FoldedExcessJoinsTopLayer(t *testing.T) {
	pots := ComputeSidePots([]Contribution{
		{PlayerID: "1", Amount: 20, AllIn: true},
		{PlayerID: "2", Amount: 60, Folded: true},
	})
	require.Len(t, pots, 1)
	require.Equal(t, int64(80), pots[0].Amount)
	require.Equal(t, []string{"1"}, pots[0].EligiblePlayerIDs)
}

func TestComputeSidePots_PureAndIdempotent(t *testing.T) {
	contribs := []Contribution{
		{PlayerID: "1", Amount: 30, AllIn: true},
		{PlayerID: "2", Amount: 10, AllIn: true},
		{PlayerID: "3", Amount: 60},
	}
	orig := append([]Contribution{}, contribs...)
	first := ComputeSidePots(contribs)
	second := ComputeSidePots(contribs)
	require.Equal(t, first, second)
	require.Equal(t, orig, contribs)
	require.Equal(t, int64(100), TotalPot(first))
}

func TestComputeSidePots_Empty(t *testing.T) {
	require.Empty(t, ComputeSidePots(nil))
}
