package maintenance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		want []Change
	}{
		{name: "empty", rows: nil, want: nil},
		{name: "already dense", rows: []Row{{"a", 0}, {"b", 1}, {"c", 2}}, want: nil},
		{
			name: "gaps",
			rows: []Row{{"c", 40}, {"a", 3}, {"b", 10}},
			want: []Change{{"a", 3, 0}, {"b", 10, 1}, {"c", 40, 2}},
		},
		{
			name: "ties broken by id",
			rows: []Row{{"b", 5}, {"a", 5}, {"c", 0}},
			want: []Change{{"a", 5, 1}, {"b", 5, 2}},
		},
		{
			name: "negative orders",
			rows: []Row{{"a", -2}, {"b", 0}},
			want: []Change{{"a", -2, 0}, {"b", 0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Plan(tt.rows))
		})
	}
}

func TestPlan_DoesNotMutateInput(t *testing.T) {
	rows := []Row{{"b", 9}, {"a", 1}}
	Plan(rows)
	assert.Equal(t, []Row{{"b", 9}, {"a", 1}}, rows)
}

func TestScheduler_Add(t *testing.T) {
	s := NewScheduler(zap.NewNop(), nil)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Add(context.Background(), "compact", NightlySpec, noop))
	assert.Equal(t, 1, s.Entries())

	assert.Error(t, s.Add(context.Background(), "bad", "every tuesday", noop))
	assert.Equal(t, 1, s.Entries())
}
