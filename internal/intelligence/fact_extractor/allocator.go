package fact_extractor

import "sort"

// ---------------------------------------------------------------------------
// Span Allocator
//
// The allocator scans the text once per tier, in tier order, committing
// non-overlapping byte spans greedily.  A region contested by two tiers is
// always won by the lower-numbered (wider) tier because that tier ran first;
// within one tier, declaration order decides because patterns are scanned in
// that order.  State lives only for the duration of one extraction call.
// ---------------------------------------------------------------------------

// committedSpan is a byte span accepted by the allocator, now exclusive for
// the remainder of the call, together with everything the parser needs.
type committedSpan struct {
	start   int
	end     int
	pattern *PatternDefinition
	groups  map[string]string
}

// spanAllocator keeps committed spans sorted by start offset, enabling
// O(log n) overlap queries via binary search.  Spans never overlap pairwise,
// so sorting by start also sorts by end.
type spanAllocator struct {
	spans []committedSpan
}

func newSpanAllocator() *spanAllocator {
	return &spanAllocator{}
}

// conflicts reports whether [start, end) intersects any committed span.
func (a *spanAllocator) conflicts(start, end int) bool {
	// First span whose end extends past our start; only that span can
	// intersect us from the left, and its start tells us the rest.
	i := sort.Search(len(a.spans), func(i int) bool {
		return a.spans[i].end > start
	})
	return i < len(a.spans) && a.spans[i].start < end
}

// commit records the span if it is non-degenerate and conflict-free.
// It reports whether the span was accepted.
func (a *spanAllocator) commit(cs committedSpan) bool {
	if cs.end <= cs.start {
		return false
	}
	i := sort.Search(len(a.spans), func(i int) bool {
		return a.spans[i].end > cs.start
	})
	if i < len(a.spans) && a.spans[i].start < cs.end {
		return false
	}
	a.spans = append(a.spans, committedSpan{})
	copy(a.spans[i+1:], a.spans[i:])
	a.spans[i] = cs
	return true
}

// committed returns the accepted spans in start order.
func (a *spanAllocator) committed() []committedSpan {
	return a.spans
}

// allocate runs the full tier sweep over text: for each tier ascending and
// each pattern in declaration order, every left-to-right match that does not
// intersect an already-committed span is committed along with its named
// capture groups.
func allocate(lib *Library, text string) []committedSpan {
	alloc := newSpanAllocator()
	for tier := 1; tier <= tierCount; tier++ {
		for _, pd := range lib.TierPatterns(tier) {
			locs := pd.re.FindAllStringSubmatchIndex(text, -1)
			for _, loc := range locs {
				start, end := loc[0], loc[1]
				if end <= start || alloc.conflicts(start, end) {
					continue
				}
				alloc.commit(committedSpan{
					start:   start,
					end:     end,
					pattern: pd,
					groups:  groupMap(pd, text, loc),
				})
			}
		}
	}
	return alloc.committed()
}

// groupMap extracts the named capture groups of one match into a map.
// Unmatched optional groups are absent.
func groupMap(pd *PatternDefinition, text string, loc []int) map[string]string {
	names := pd.re.SubexpNames()
	groups := make(map[string]string, len(names))
	for i, n := range names {
		if n == "" || 2*i+1 >= len(loc) {
			continue
		}
		s, e := loc[2*i], loc[2*i+1]
		if s < 0 || e < 0 {
			continue
		}
		groups[n] = text[s:e]
	}
	return groups
}
