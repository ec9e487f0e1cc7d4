package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipdeck/shipdeck/internal/authz"
)

type stubCounts struct {
	tables map[string]int
	staff  int
	fail   string
}

func (s *stubCounts) CountActive(ctx context.Context, table string) (int, error) {
	if table == s.fail {
		return 0, errors.New("boom")
	}
	return s.tables[table], nil
}

func (s *stubCounts) CountActiveStaff(ctx context.Context, panel authz.Panel) (int, error) {
	return s.staff, nil
}

func TestSummaryGathersAllCounts(t *testing.T) {
	repo := &stubCounts{
		tables: map[string]int{"categories": 12, "cities": 4, "warehouses": 2, "pincodes": 900},
		staff:  7,
	}
	svc := NewService(repo)

	summary, err := svc.Summary(context.Background(), authz.PanelAdmin)
	require.NoError(t, err)
	assert.Equal(t, Summary{Categories: 12, Cities: 4, Warehouses: 2, Pincodes: 900, StaffActive: 7}, summary)
}

func TestSummaryFailsWhenAnyCountFails(t *testing.T) {
	repo := &stubCounts{tables: map[string]int{}, fail: "warehouses"}
	svc := NewService(repo)

	_, err := svc.Summary(context.Background(), authz.PanelAdmin)
	assert.Error(t, err)
}
