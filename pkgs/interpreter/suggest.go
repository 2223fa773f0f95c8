package interpreter

import (
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/loxwalk/pkgs/environment"
)

// Suggest looks up the closest visible name to target across every
// frame from frame outward, for attaching a "did you mean" hint to an
// InvalidIdentifier or MissingAsignee diagnostic. It returns "" when
// nothing in scope is close enough to be worth suggesting.
func Suggest(target string, frame *environment.Frame) string {
	var candidates []string
	for f := frame; f != nil; f = f.Parent() {
		candidates = append(candidates, f.Names()...)
	}
	if len(candidates) == 0 {
		return ""
	}
	ranked := fuzzy.RankFindFold(target, candidates)
	if len(ranked) == 0 {
		return ""
	}
	best := ranked[0]
	for _, r := range ranked[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}
