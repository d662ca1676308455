package debloat

import (
	"sort"

	"github.com/magladko/jpamb-sub000/internal/jvm"
)

// defaultThresholds seeds every K-set regardless of what the method's
// source mines, mirroring debloat_config.py's DEFAULT_THRESHOLDS.
var defaultThresholds = []int64{-100, -10, -1, 0, 1, 10, 100}

// GenerateKSet builds the widening threshold set a non-trivial method's
// abstract coverage run seeds its domain with: the fixed default
// thresholds, plus every interesting integer value syntactic mining found
// together with its immediate neighbors, per
// original_source/project/debloat_config.py's generate_k_set. Floating
// values are skipped, matching internal/abstract.Analyze's int64-only
// domain scope (DESIGN.md decision 10).
func GenerateKSet(values []jvm.Value) []int64 {
	set := make(map[int64]struct{}, len(defaultThresholds)+3*len(values))
	for _, t := range defaultThresholds {
		set[t] = struct{}{}
	}
	for _, v := range values {
		if v.Type.IsFloating() {
			continue
		}
		set[v.I] = struct{}{}
		set[v.I-1] = struct{}{}
		set[v.I+1] = struct{}{}
	}
	out := make([]int64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
