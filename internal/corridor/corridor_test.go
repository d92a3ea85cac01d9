package corridor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taxiflow/internal/model"
)

func TestCanonicalKeySymmetric(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{name: "midtown jfk", a: "Midtown ↔ JFK", b: "JFK ↔ Midtown"},
		{name: "spacing", a: "Midtown↔JFK", b: "JFK ↔  Midtown"},
		{name: "self loop", a: "SoHo ↔ SoHo", b: "SoHo ↔ SoHo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, CanonicalKey(tt.a), CanonicalKey(tt.b))
		})
	}
}

func TestCanonicalKeyNonCorridorLabels(t *testing.T) {
	assert.Equal(t, model.CorridorKey("Mixed area"), CanonicalKey("  Mixed area "))
	assert.Equal(t, model.CorridorKey("A ↔ B ↔ C"), CanonicalKey("A ↔ B ↔ C"),
		"three endpoints cannot be canonicalized")
}

func TestStripWindowSuffix(t *testing.T) {
	assert.Equal(t, "JFK", StripWindowSuffix("JFK (AM peak)"))
	assert.Equal(t, "JFK", StripWindowSuffix("JFK (PM peak)"))
	assert.Equal(t, "Upper East Side", StripWindowSuffix("Upper East Side"))
	assert.Equal(t, "Midtown (core)", StripWindowSuffix("Midtown (core) (evening)"),
		"only the trailing qualifier is stripped")
}

func semanticsFixture() map[int]model.ClusterSemantics {
	return map[int]model.ClusterSemantics{
		3: {
			Label:           "Midtown ↔ JFK",
			FromArea:        "Midtown",
			ToArea:          "JFK",
			FromBoroughArea: "Manhattan area",
			ToBoroughArea:   "Queens area",
			TopZones:        []string{"Times Sq/Theatre District", "JFK Airport"},
		},
		4: {
			Label:           "JFK ↔ Midtown",
			FromArea:        "JFK",
			ToArea:          "Midtown",
			FromBoroughArea: "Queens area",
			ToBoroughArea:   "Manhattan area",
		},
		7: {
			Label:    "SoHo ↔ soho",
			FromArea: "SoHo",
			ToArea:   "soho",
		},
	}
}

func TestReadableLabel(t *testing.T) {
	r := New(semanticsFixture(), nil)

	assert.Equal(t, "Midtown ↔ JFK", r.ReadableLabel(3))
	assert.Equal(t, "Intra SoHo", r.ReadableLabel(7), "case-insensitive self loop")
	assert.Equal(t, "Cluster 99", r.ReadableLabel(99), "missing semantics falls back to numeric id")
}

func TestReadableLabelNoSemantics(t *testing.T) {
	r := New(nil, nil)
	assert.Equal(t, "Cluster 3", r.ReadableLabel(3))
	assert.Empty(t, r.Search("", ""))
}

func TestDirectionSymmetricLabelsShareKey(t *testing.T) {
	r := New(semanticsFixture(), nil)

	k3, ok := r.KeyFor(3)
	require.True(t, ok)
	k4, ok := r.KeyFor(4)
	require.True(t, ok)
	assert.Equal(t, k3, k4, "A↔B and B↔A collapse to one corridor")

	assert.ElementsMatch(t, []int{3, 4}, r.ClustersFor(k3))

	set := r.ClusterSet(k3)
	assert.Contains(t, set, 3)
	assert.Contains(t, set, 4)
}

func TestAdjacencyIsSymmetric(t *testing.T) {
	r := New(semanticsFixture(), nil)
	assert.Contains(t, r.Destinations("Midtown"), "JFK")
	assert.Contains(t, r.Destinations("JFK"), "Midtown")
}

func TestBoroughFallbackFromZoneNames(t *testing.T) {
	semantics := map[int]model.ClusterSemantics{
		5: {
			Label:    "Astoria ↔ Midtown",
			FromArea: "Astoria",
			ToArea:   "Midtown",
			// No borough metadata on either side.
		},
	}
	zones := []model.Zone{
		{ID: 1, Name: "Astoria", Borough: model.BoroughQueens},
		{ID: 2, Name: "Midtown Center", Borough: model.BoroughManhattan},
	}

	r := New(semantics, zones)
	assert.Contains(t, r.aliasBoroughs["Astoria"], model.BoroughQueens)
	assert.Contains(t, r.aliasBoroughs["Midtown"], model.BoroughManhattan,
		"alias substring of zone name resolves the borough")
}

func TestSearch(t *testing.T) {
	r := New(semanticsFixture(), nil)

	tests := []struct {
		name      string
		from, to  string
		wantKeys  int
		wantFirst string
	}{
		{name: "exact aliases", from: "Midtown", to: "JFK", wantKeys: 1, wantFirst: "Midtown ↔ JFK"},
		{name: "reversed orientation", from: "JFK", to: "Midtown", wantKeys: 1, wantFirst: "Midtown ↔ JFK"},
		{name: "partial query", from: "mid", to: "jf", wantKeys: 1, wantFirst: "Midtown ↔ JFK"},
		{name: "borough query", from: "manhattan", to: "queens", wantKeys: 1, wantFirst: "Midtown ↔ JFK"},
		{name: "wildcards", from: "", to: "", wantKeys: 2},
		{name: "no match", from: "Staten", to: "JFK", wantKeys: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := r.Search(tt.from, tt.to)
			require.Len(t, matches, tt.wantKeys)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, matches[0].Label)
			}
		})
	}
}

func TestSearchExactBeatsSubstring(t *testing.T) {
	semantics := map[int]model.ClusterSemantics{
		1: {Label: "Chelsea ↔ JFK", FromArea: "Chelsea", ToArea: "JFK"},
		2: {Label: "East Chelsea Annex ↔ JFK", FromArea: "East Chelsea Annex", ToArea: "JFK"},
	}
	r := New(semantics, nil)

	matches := r.Search("Chelsea", "JFK")
	require.Len(t, matches, 2)
	assert.Equal(t, "Chelsea ↔ JFK", matches[0].Label, "exact alias match ranks first")
}
