package product

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRepository simulates an unreachable store.
type failingRepository struct {
	InMemoryRepository
}

var errDown = errors.New("connection refused")

func (*failingRepository) List(context.Context) ([]Product, error) { return nil, errDown }
func (*failingRepository) Get(context.Context, string) (Product, error) {
	return Product{}, errDown
}

func sampleProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Sky Rocket", Category: "Rockets", Price: decimal.NewFromInt(150), Description: "Whistling climb", InStock: true, Featured: true},
		{ID: "p2", Name: "Gold Sparkler", Category: "Sparklers", Price: decimal.NewFromInt(40), Description: "Hand held, bright SKY glow", InStock: true},
		{ID: "p3", Name: "Rocket Pack", Category: "Rockets", Price: decimal.NewFromInt(320), Description: "Ten assorted", InStock: false, Featured: true},
		{ID: "p4", Name: "Flower Pot Deluxe", Category: "Flower pots", Price: decimal.NewFromInt(90), Description: "Fountain", InStock: true, Featured: true},
	}
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestList_FiltersKeepInsertionOrder(t *testing.T) {
	svc := NewService(NewInMemoryRepository(sampleProducts()), false)
	ctx := context.Background()

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(all))

	rockets, err := svc.List(ctx, Filter{Category: "Rockets"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids(rockets))

	// matches name of p1 and description of p2
	sky, err := svc.List(ctx, Filter{Search: "sky"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids(sky))

	both, err := svc.List(ctx, Filter{Category: "Sparklers", Search: "SKY"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(both))

	everything, err := svc.List(ctx, Filter{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, everything, 4)
}

func TestList_StoreFailure(t *testing.T) {
	repo := &failingRepository{}

	_, err := NewService(repo, false).List(context.Background(), Filter{})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	demo, err := NewService(repo, true).List(context.Background(), Filter{Category: "Rockets"})
	require.NoError(t, err)
	assert.Len(t, demo, 3)
	for _, p := range demo {
		assert.Equal(t, "Rockets", p.Category)
	}
}

func TestGet_StoreFailure(t *testing.T) {
	repo := &failingRepository{}

	_, err := NewService(repo, false).Get(context.Background(), "0-1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	p, err := NewService(repo, true).Get(context.Background(), "0-1")
	require.NoError(t, err)
	assert.Equal(t, Categories[0], p.Category)
}

func TestDemoCatalog_Deterministic(t *testing.T) {
	a, b := DemoCatalog(), DemoCatalog()
	require.Len(t, a, 48)
	assert.Equal(t, a, b)

	perCategory := map[string]int{}
	for _, p := range a {
		perCategory[p.Category]++
		assert.False(t, p.Price.IsNegative())
	}
	assert.Len(t, perCategory, len(Categories))
	for _, n := range perCategory {
		assert.Equal(t, 3, n)
	}
}

func TestFeatured(t *testing.T) {
	svc := NewService(NewInMemoryRepository(sampleProducts()), false)

	got, err := svc.Featured(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p4"}, ids(got))

	one, err := svc.Featured(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(one))
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), false)
	ctx := context.Background()

	_, err := svc.Create(ctx, Product{Name: "", Category: "Rockets"})
	assert.Error(t, err)

	_, err = svc.Create(ctx, Product{Name: "Bad", Category: "Toys", Price: decimal.NewFromInt(1)})
	assert.Error(t, err)

	_, err = svc.Create(ctx, Product{Name: "Neg", Category: "Rockets", Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	created, err := svc.Create(ctx, Product{ID: "ignored", Name: "Ok", Category: "Rockets", Price: decimal.RequireFromString("12.50")})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "ignored", created.ID)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdateDelete(t *testing.T) {
	svc := NewService(NewInMemoryRepository(sampleProducts()), false)
	ctx := context.Background()

	p := sampleProducts()[0]
	p.Price = decimal.NewFromInt(175)
	updated, err := svc.Update(ctx, "p1", p)
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(175)))

	_, err = svc.Update(ctx, "missing", p)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "p1"))
	assert.ErrorIs(t, svc.Delete(ctx, "p1"), ErrNotFound)
}

func TestAdminSearch(t *testing.T) {
	svc := NewService(NewInMemoryRepository(sampleProducts()), true)

	got, err := svc.AdminSearch(context.Background(), "flower")
	require.NoError(t, err)
	assert.Equal(t, []string{"p4"}, ids(got))

	_, err = NewService(&failingRepository{}, true).AdminSearch(context.Background(), "")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestByIDs(t *testing.T) {
	svc := NewService(NewInMemoryRepository(sampleProducts()), false)

	got, err := svc.ByIDs(context.Background(), []string{"p4", "nope", "p2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p2", "p4"}, ids(got))
}
