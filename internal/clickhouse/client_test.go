package clickhouse

import (
	"context"
	"errors"
	"testing"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

type staticSource map[string]models.Projection

func (s staticSource) GetProjections(ctx context.Context) (map[string]models.Projection, error) {
	out := make(map[string]models.Projection, len(s))
	for id, pr := range s {
		out[id] = pr
	}
	return out, nil
}

func (s staticSource) Close() error { return nil }

func TestSyncProjectionsDropsInvalidRows(t *testing.T) {
	src := staticSource{
		"ok":       {Value: 12, Tier: 3},
		"floor":    {Value: 1, Tier: 10},
		"zero":     {Value: 0, Tier: 8},
		"negative": {Value: -4, Tier: 8},
		"no tier":  {Value: 5, Tier: 0},
	}

	var applied map[string]models.Projection
	changed, err := SyncProjections(context.Background(), src, func(m map[string]models.Projection) (int, error) {
		applied = m
		return len(m), nil
	})
	if err != nil {
		t.Fatalf("SyncProjections() failed: %v", err)
	}
	if changed != 2 {
		t.Errorf("expected 2 changed, got %d", changed)
	}
	for _, id := range []string{"ok", "floor"} {
		if _, ok := applied[id]; !ok {
			t.Errorf("expected %s to be applied", id)
		}
	}
	for _, id := range []string{"zero", "negative", "no tier"} {
		if _, ok := applied[id]; ok {
			t.Errorf("expected %s to be dropped", id)
		}
	}
}

func TestSyncProjectionsWrapsApplyError(t *testing.T) {
	boom := errors.New("boom")
	_, err := SyncProjections(context.Background(), staticSource{"ok": {Value: 3, Tier: 9}}, func(map[string]models.Projection) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped apply error, got %v", err)
	}
}

func TestValidProjection(t *testing.T) {
	cases := []struct {
		pr   models.Projection
		want bool
	}{
		{models.Projection{Value: 1, Tier: 1}, true},
		{models.Projection{Value: 0, Tier: 1}, false},
		{models.Projection{Value: 10, Tier: 0}, false},
	}
	for _, tc := range cases {
		if got := validProjection(tc.pr); got != tc.want {
			t.Errorf("validProjection(%+v) = %v, want %v", tc.pr, got, tc.want)
		}
	}
}
