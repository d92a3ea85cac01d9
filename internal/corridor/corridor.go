// Package corridor resolves numeric flow-cluster ids to human corridor
// labels, collapses direction-symmetric labels into canonical keys, and
// backs the corridor type-ahead search.
package corridor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/taxiflow/internal/model"
)

// Separator joins the two endpoint names of a corridor label.
const Separator = " ↔ "

var fold = cases.Fold()

// CanonicalKey derives the direction-agnostic key of a corridor label.
// A label with exactly two separator-delimited endpoints is normalized by
// alpha-sorting the trimmed endpoints, so key(A,B) == key(B,A). Any other
// shape cannot be canonicalized; the raw trimmed label is the key.
func CanonicalKey(label string) model.CorridorKey {
	parts := strings.Split(label, "↔")
	if len(parts) != 2 {
		return model.CorridorKey(strings.TrimSpace(label))
	}
	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if left > right {
		left, right = right, left
	}
	return model.CorridorKey(left + Separator + right)
}

var windowSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// StripWindowSuffix removes a trailing parenthetical time-window qualifier,
// collapsing "JFK (AM peak)" and "JFK (PM peak)" to the same base label.
func StripWindowSuffix(label string) string {
	return strings.TrimSpace(windowSuffix.ReplaceAllString(label, ""))
}

// FallbackLabel is the numeric-id label used when no semantics entry exists.
func FallbackLabel(clusterID int) string {
	return fmt.Sprintf("Cluster %d", clusterID)
}

// Resolver maps cluster ids to labels and canonical keys, and holds the
// alias search index built from all semantics entries. Read-only after New.
type Resolver struct {
	semantics     map[int]model.ClusterSemantics
	keyClusters   map[model.CorridorKey][]int
	clusterKey    map[int]model.CorridorKey
	adjacency     map[string]map[string]struct{} // alias -> reachable aliases, symmetric
	aliasBoroughs map[string]map[model.Borough]struct{}
	aliases       []string
}

// New builds the resolver. zones supplies the name pool for the fuzzy
// borough fallback used when a semantics entry carries no usable borough
// metadata for an alias. A nil or empty semantics map yields a resolver
// that falls back to numeric labels everywhere.
func New(semantics map[int]model.ClusterSemantics, zones []model.Zone) *Resolver {
	r := &Resolver{
		semantics:     semantics,
		keyClusters:   make(map[model.CorridorKey][]int),
		clusterKey:    make(map[int]model.CorridorKey),
		adjacency:     make(map[string]map[string]struct{}),
		aliasBoroughs: make(map[string]map[model.Borough]struct{}),
	}

	ids := make([]int, 0, len(semantics))
	for cid := range semantics {
		ids = append(ids, cid)
	}
	sort.Ints(ids)

	for _, cid := range ids {
		entry := semantics[cid]
		key := CanonicalKey(entry.Label)
		r.clusterKey[cid] = key
		r.keyClusters[key] = append(r.keyClusters[key], cid)

		from, to := strings.TrimSpace(entry.FromArea), strings.TrimSpace(entry.ToArea)
		if from != "" && to != "" {
			r.linkAliases(from, to)
		}
		r.recordBorough(from, entry.FromBoroughArea, zones)
		r.recordBorough(to, entry.ToBoroughArea, zones)
	}

	for alias := range r.adjacency {
		r.aliases = append(r.aliases, alias)
	}
	sort.Strings(r.aliases)
	return r
}

// linkAliases inserts an undirected corridor edge into the adjacency index.
func (r *Resolver) linkAliases(a, b string) {
	insert := func(from, to string) {
		set, ok := r.adjacency[from]
		if !ok {
			set = make(map[string]struct{})
			r.adjacency[from] = set
		}
		set[to] = struct{}{}
	}
	insert(a, b)
	insert(b, a)
}

// recordBorough associates an alias with its borough, using the semantics'
// embedded borough-area field when it normalizes, with a fuzzy substring
// match against zone names as fallback.
func (r *Resolver) recordBorough(alias, boroughArea string, zones []model.Zone) {
	if alias == "" {
		return
	}
	set, ok := r.aliasBoroughs[alias]
	if !ok {
		set = make(map[model.Borough]struct{})
		r.aliasBoroughs[alias] = set
	}

	if b := model.ParseBorough(boroughArea); b != model.BoroughUnknown {
		set[b] = struct{}{}
		return
	}

	folded := fold.String(alias)
	for _, z := range zones {
		name := fold.String(z.Name)
		if strings.Contains(name, folded) || strings.Contains(folded, name) {
			if z.Borough != model.BoroughUnknown {
				set[z.Borough] = struct{}{}
			}
		}
	}
}

// ReadableLabel returns the semantics label for a cluster id, rendering a
// self-loop corridor as "Intra <Name>". Without semantics it falls back to
// "Cluster <id>".
func (r *Resolver) ReadableLabel(clusterID int) string {
	entry, ok := r.semantics[clusterID]
	if !ok || entry.Label == "" {
		return FallbackLabel(clusterID)
	}
	parts := strings.Split(entry.Label, "↔")
	if len(parts) == 2 {
		left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if fold.String(left) == fold.String(right) {
			return "Intra " + left
		}
	}
	return entry.Label
}

// KeyFor returns the canonical corridor key of a cluster id.
func (r *Resolver) KeyFor(clusterID int) (model.CorridorKey, bool) {
	key, ok := r.clusterKey[clusterID]
	return key, ok
}

// ClustersFor returns the cluster ids sharing a canonical key, ascending.
// Empty for an unknown key.
func (r *Resolver) ClustersFor(key model.CorridorKey) []int {
	return r.keyClusters[key]
}

// ClusterSet returns ClustersFor as a membership set.
func (r *Resolver) ClusterSet(key model.CorridorKey) map[int]struct{} {
	ids := r.keyClusters[key]
	set := make(map[int]struct{}, len(ids))
	for _, cid := range ids {
		set[cid] = struct{}{}
	}
	return set
}

// Semantics returns the raw semantics entry for a cluster id.
func (r *Resolver) Semantics(clusterID int) (model.ClusterSemantics, bool) {
	entry, ok := r.semantics[clusterID]
	return entry, ok
}

// Destinations returns the aliases reachable from an alias, ascending.
func (r *Resolver) Destinations(alias string) []string {
	set := r.adjacency[alias]
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
