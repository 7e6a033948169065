package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rensa_sim/internal/field"
)

func fields(t *testing.T) []field.Field {
	t.Helper()
	boards := [][]string{
		{
			".R....",
			".R....",
			".G....",
			".G....",
			".Y....",
			"RYR...",
			"GBG...",
			"YBY...",
			"BRB...",
			"RRR...",
		},
		{"RB....", "BR...."},
		{"YYYY.."},
	}
	out := make([]field.Field, 0, len(boards))
	for _, rows := range boards {
		f, err := field.FromRows(rows...)
		require.NoError(t, err)
		out = append(out, f)
	}
	return out
}

func TestSimulateKeepsInputOrder(t *testing.T) {
	in := fields(t)
	before := append([]field.Field(nil), in...)

	out, err := Simulate(context.Background(), in, Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, out, 3)

	require.Equal(t, 0, out[0].Index)
	require.Equal(t, 5, out[0].Result.Chains)
	require.Equal(t, 4840, out[0].Result.Score)
	require.True(t, out[0].Zenkeshi)
	require.Empty(t, out[0].Rows)

	require.Equal(t, 0, out[1].Result.Chains)
	require.Equal(t, []string{"RB....", "BR...."}, out[1].Rows)

	require.Equal(t, 1, out[2].Result.Chains)
	require.True(t, out[2].Result.Quick)

	require.Equal(t, before, in, "input fields must not be modified")
}

func TestFastMatchesFull(t *testing.T) {
	in := fields(t)
	full, err := Simulate(context.Background(), in, Options{})
	require.NoError(t, err)
	fast, err := Simulate(context.Background(), in, Options{Workers: 1, Fast: true})
	require.NoError(t, err)

	for i := range full {
		require.Equal(t, full[i].Result.Chains, fast[i].Result.Chains)
		require.Equal(t, full[i].Result.Score, fast[i].Result.Score)
		require.Zero(t, fast[i].Result.Frames)
		require.Equal(t, full[i].Rows, fast[i].Rows)
	}
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, fields(t), Options{Workers: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSimulateEmpty(t *testing.T) {
	out, err := Simulate(context.Background(), nil, Options{})
	require.NoError(t, err)
	require.Empty(t, out)
}
