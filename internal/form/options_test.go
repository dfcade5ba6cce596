package form

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/testutil"
)

func TestDependentOptions_LatestTicketWins(t *testing.T) {
	d := NewDependentOptions()
	first := d.Begin("sector")
	second := d.Begin("sector")

	assert.True(t, d.Apply(second, testutil.NewTestOptions("Foam")))
	assert.False(t, d.Apply(first, testutil.NewTestOptions("Stale")))
	assert.Equal(t, testutil.NewTestOptions("Foam"), d.Options("sector"))
}

func TestDependentOptions_TicketsArePerField(t *testing.T) {
	d := NewDependentOptions()
	sector := d.Begin("sector")
	d.Begin("subsector")
	assert.True(t, d.Apply(sector, testutil.NewTestOptions("Foam")))
}

func TestDependentOptions_SlowStaleResponseIsDropped(t *testing.T) {
	d := NewDependentOptions()
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	var staleApplied bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, staleApplied, _ = d.Fetch(ctx, "sector", func(context.Context) ([]domain.Option, error) {
			close(started)
			<-release
			return testutil.NewTestOptions("Stale"), nil
		})
	}()
	<-started

	_, applied, err := d.Fetch(ctx, "sector", func(context.Context) ([]domain.Option, error) {
		return testutil.NewTestOptions("Fresh"), nil
	})
	require.NoError(t, err)
	close(release)
	wg.Wait()

	assert.True(t, applied)
	assert.False(t, staleApplied)
	assert.Equal(t, "Fresh", d.Options("sector")[0].Name)
}

func TestDependentOptions_FetchError(t *testing.T) {
	d := NewDependentOptions()
	d.Set("sector", testutil.NewTestOptions("Kept"))
	_, applied, err := d.Fetch(context.Background(), "sector", func(context.Context) ([]domain.Option, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)
	assert.False(t, applied)
	assert.Equal(t, "Kept", d.Options("sector")[0].Name)
}

func TestDependentOptions_Decorate(t *testing.T) {
	d := NewDependentOptions()
	d.Set("sector", testutil.NewTestOptions("Foam", "Refrigeration"))

	got := d.DecorateSections([]Section{{Key: KeyCrossCutting, Fields: fields.CrossCuttingFields()}})

	byName := fields.ByName(got[0].Fields)
	assert.Len(t, byName["sector"].Options, 2)
	assert.Empty(t, fields.CrossCuttingFields()[3].Options, "static descriptors are untouched")
}
