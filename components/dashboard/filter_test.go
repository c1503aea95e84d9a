package dashboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func diseaseNames(diseases []Disease) []string {
	names := make([]string, len(diseases))
	for i, d := range diseases {
		names[i] = d.Name
	}
	return names
}

func TestDiseaseFilterSearchMatchesNameCaseInsensitively(t *testing.T) {
	t.Parallel()
	got := DiseaseFilter{Search: "coffee"}.Apply(SeedDiseases())
	assert.Equal(t, []string{"Coffee Leaf Rust"}, diseaseNames(got))
}

func TestDiseaseFilterSearchMatchesScientificName(t *testing.T) {
	t.Parallel()
	got := DiseaseFilter{Search: "PHYTOPHTHORA"}.Apply(SeedDiseases())
	assert.Equal(t, []string{"Tomato Late Blight"}, diseaseNames(got))
}

func TestDiseaseFilterCombinesCriteria(t *testing.T) {
	t.Parallel()
	all := SeedDiseases()

	assert.Equal(t, []string{"Maize Lethal Necrosis", "Tomato Late Blight"},
		diseaseNames(DiseaseFilter{Severity: SeverityHigh}.Apply(all)))
	assert.Equal(t, []string{"Tomato Late Blight"},
		diseaseNames(DiseaseFilter{Severity: SeverityHigh, PlantType: PlantTomato}.Apply(all)))
	assert.Empty(t, DiseaseFilter{Search: "maize", PlantType: PlantCoffee}.Apply(all))
	assert.Len(t, DiseaseFilter{}.Apply(all), len(all))
}

func TestUserFilter(t *testing.T) {
	t.Parallel()
	all := SeedFarmers()

	byEmail := UserFilter{Search: "MARY@"}.Apply(all)
	assert.Len(t, byEmail, 1)
	assert.Equal(t, "Mary Wanjiku", byEmail[0].Name)

	byRegion := UserFilter{Region: "Eastern"}.Apply(all)
	assert.Len(t, byRegion, 1)
	assert.Equal(t, "James Omondi", byRegion[0].Name)

	assert.Empty(t, UserFilter{Search: "john", Region: "Eastern"}.Apply(all))
	assert.Equal(t, []string{"Central", "Rift Valley", "Eastern"}, UniqueRegions(all))
}

func TestPaginate(t *testing.T) {
	t.Parallel()
	items := make([]int, 230)
	for i := range items {
		items[i] = i
	}

	assert.Len(t, Paginate(items, 1, 0), DefaultPageSize)
	assert.Len(t, Paginate(items, 1, 500), MaxPageSize)
	last := Paginate(items, 3, 100)
	assert.Len(t, last, 30)
	assert.Equal(t, 200, last[0])
	assert.Empty(t, Paginate(items, 9, 100))
	assert.Equal(t, 0, Paginate(items, -1, 10)[0])
}

func TestPaginateHugePageDoesNotOverflow(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3}
	for _, page := range []int{368934881474191033, math.MaxInt} {
		assert.Empty(t, Paginate(items, page, 50), "page %d", page)
		assert.Empty(t, Paginate(items, page, 0), "page %d", page)
		assert.False(t, HasMore(len(items), page, 50), "page %d", page)
	}
	assert.Empty(t, Paginate([]int{}, math.MaxInt, MaxPageSize))
}

func TestHasMore(t *testing.T) {
	t.Parallel()
	assert.True(t, HasMore(230, 1, 100))
	assert.True(t, HasMore(230, 2, 100))
	assert.False(t, HasMore(230, 3, 100))
	assert.False(t, HasMore(100, 1, 100))
	assert.False(t, HasMore(0, 1, 10))
	assert.True(t, HasMore(60, 0, 0))
}
