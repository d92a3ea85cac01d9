package corridor

import (
	"sort"
	"strings"

	"github.com/sells-group/taxiflow/internal/model"
)

// Match is one corridor returned by the type-ahead search.
type Match struct {
	Key      model.CorridorKey `json:"key"`
	Label    string            `json:"label"`
	Clusters []int             `json:"clusters"`
	TopZones []string          `json:"top_zones,omitempty"`
}

// matchAlias reports whether a query matches an alias, directly or through
// the alias's boroughs. Exact (case-folded) equality wins over substring
// matching; substring matching runs in both directions so that partial
// queries ("man") and over-long queries ("manhattan area") both hit.
func (r *Resolver) matchAlias(query, alias string) (exact, ok bool) {
	if query == "" {
		return false, true // empty query is a wildcard
	}
	q, a := fold.String(strings.TrimSpace(query)), fold.String(alias)
	if q == a {
		return true, true
	}
	if strings.Contains(a, q) || strings.Contains(q, a) {
		return false, true
	}
	for b := range r.aliasBoroughs[alias] {
		bn := fold.String(string(b))
		if strings.Contains(bn, q) || strings.Contains(q, bn) {
			return false, true
		}
	}
	return false, false
}

// Search returns the corridors whose endpoint aliases match the origin and
// destination queries in either orientation. Exact alias matches rank ahead
// of substring and borough matches; within a rank, corridors sort by key so
// the result is stable. Volume ranking is applied by the caller, which owns
// the flow table.
func (r *Resolver) Search(originQuery, destQuery string) []Match {
	type scored struct {
		match Match
		exact bool
	}
	var out []scored
	seen := make(map[model.CorridorKey]bool)

	keys := make([]model.CorridorKey, 0, len(r.keyClusters))
	for key := range r.keyClusters {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		clusters := r.keyClusters[key]
		var hit, hitExact bool
		for _, cid := range clusters {
			entry := r.semantics[cid]
			from, to := strings.TrimSpace(entry.FromArea), strings.TrimSpace(entry.ToArea)

			fwdExact, fwdOK := r.matchPair(originQuery, destQuery, from, to)
			revExact, revOK := r.matchPair(originQuery, destQuery, to, from)
			if fwdOK || revOK {
				hit = true
				hitExact = hitExact || fwdExact || revExact
			}
		}
		if !hit || seen[key] {
			continue
		}
		seen[key] = true

		m := Match{Key: key, Label: r.ReadableLabel(clusters[0]), Clusters: clusters}
		if entry, ok := r.semantics[clusters[0]]; ok {
			m.TopZones = entry.TopZones
		}
		out = append(out, scored{match: m, exact: hitExact})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].exact != out[j].exact {
			return out[i].exact
		}
		return out[i].match.Key < out[j].match.Key
	})

	matches := make([]Match, len(out))
	for i, s := range out {
		matches[i] = s.match
	}
	return matches
}

// matchPair matches an (origin, dest) query pair against an oriented
// (from, to) alias pair.
func (r *Resolver) matchPair(originQuery, destQuery, from, to string) (exact, ok bool) {
	fromExact, fromOK := r.matchAlias(originQuery, from)
	if !fromOK {
		return false, false
	}
	toExact, toOK := r.matchAlias(destQuery, to)
	if !toOK {
		return false, false
	}
	return fromExact || toExact, true
}
