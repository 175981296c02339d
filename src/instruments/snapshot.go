package instruments

// copyInto fills dst with a deep copy of the instrument's own state. Graph
// links are left empty; cloneGraph re-points them within the copied subgraph.
func (i *Instrument) copyInto(dst *Instrument, owner Node) {
	dst.id = i.id
	dst.tradeSymbol = i.tradeSymbol
	dst.quoteSymbol = i.quoteSymbol

	dst.bid = clonePtr(i.bid)
	dst.ask = clonePtr(i.ask)
	dst.mark = clonePtr(i.mark)
	dst.spread = clonePtr(i.spread)

	dst.now = cloneTimePtr(i.now)
	dst.owner = owner
}

// cloneGraph deep-copies the connected component reachable from root through
// underlying and derivative edges. The copy's cross-references point only
// within the copy, every copied node is flagged as a snapshot, and no feed or
// propagated mutation from the original graph can reach it. The copied nodes
// stay live: manual assignment still recomputes locally.
func cloneGraph(root Node) Node {
	members := []Node{}
	seen := map[Node]bool{}

	var walk func(n Node)
	walk = func(n Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		members = append(members, n)

		walk(n.base().underlying)
		for _, d := range n.base().derivatives {
			walk(d)
		}
	}
	walk(root)

	clones := make(map[Node]Node, len(members))
	for _, n := range members {
		c := n.cloneNode()
		c.base().isSnapshot = true
		clones[n] = c
	}

	// reference surgery: rebuild the edges inside the copy, preserving
	// derivative registration order
	for _, n := range members {
		src := n.base()
		dst := clones[n].base()

		if src.underlying != nil {
			dst.underlying = clones[src.underlying]
		}

		dst.derivatives = make([]Node, 0, len(src.derivatives))
		for _, d := range src.derivatives {
			dst.derivatives = append(dst.derivatives, clones[d])
		}
	}

	return clones[root]
}
