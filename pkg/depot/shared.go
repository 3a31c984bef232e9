package depot

import (
	"sort"

	"github.com/depot-tools/depotc/pkg/logging"
	"github.com/depot-tools/depotc/pkg/types"
)

// SharedResources computes which resource paths exist in more than one
// depot: a resource is shared when some depot from the subject list and a
// *different* depot from the reference list both contain it. A nil or empty
// reference list means the subject list is compared against itself.
//
// Both lists are canonicalized and de-duplicated first; a depot is never
// paired with itself, so SharedResources([d], [d]) is empty. The result is
// sorted and deterministic regardless of filesystem iteration order.
func SharedResources(fsys types.FS, subject, reference []string) ([]string, error) {
	logger := logging.GetLogger("depot.shared")

	if len(reference) == 0 {
		reference = subject
	}

	subjects, err := CanonicalizeAll(subject)
	if err != nil {
		return nil, err
	}
	references, err := CanonicalizeAll(reference)
	if err != nil {
		return nil, err
	}

	// Enumerate every depot in the union exactly once.
	sets := make(map[string]map[string]bool)
	for _, d := range append(append([]string{}, subjects...), references...) {
		if _, ok := sets[d]; ok {
			continue
		}
		resources, err := Resources(fsys, d)
		if err != nil {
			return nil, err
		}
		set := make(map[string]bool, len(resources))
		for _, r := range resources {
			set[r] = true
		}
		sets[d] = set
	}

	shared := make(map[string]bool)
	for _, s := range subjects {
		for _, ref := range references {
			if s == ref {
				continue
			}
			for r := range sets[s] {
				if sets[ref][r] {
					shared[r] = true
				}
			}
		}
	}

	out := make([]string, 0, len(shared))
	for r := range shared {
		out = append(out, r)
	}
	sort.Strings(out)

	logger.Debug().
		Int("subjects", len(subjects)).
		Int("references", len(references)).
		Int("shared", len(out)).
		Msg("Computed shared resources")
	return out, nil
}
