package analyzer

import "github.com/ludo-technologies/jstrace/domain"

// UsedByGraphFrom derives the used-by graph from a quiescent depend-on
// graph: every edge src → dst becomes dst → src and the node set is
// preserved, isolated nodes included. O(V+E).
func UsedByGraphFrom(g *DependOnGraph) *domain.Graph {
	return g.Graph().Transpose()
}
