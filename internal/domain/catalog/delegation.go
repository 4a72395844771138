package catalog

// DelegationGraph maps a course slug to the course slugs listed in its delegateAuthTo.
type DelegationGraph map[string][]string

// NewDelegationGraph builds the graph from courses.
func NewDelegationGraph(courses []*Course) DelegationGraph {
	g := make(DelegationGraph, len(courses))
	for _, c := range courses {
		g[c.Slug] = append([]string(nil), c.DelegateAuthTo...)
	}
	return g
}

// AccessCourses returns courseSlug followed by every course reachable through delegation,
// in breadth-first order. Cycles are tolerated.
func (g DelegationGraph) AccessCourses(courseSlug string) []string {
	seen := map[string]bool{courseSlug: true}
	out := []string{courseSlug}

	for i := 0; i < len(out); i++ {
		for _, next := range g[out[i]] {
			if seen[next] {
				continue
			}
			seen[next] = true
			out = append(out, next)
		}
	}
	return out
}
