package obo

// link resolves the pending is_a edges into parent and child id sets. Edges
// naming an id that is not in the index are dropped, and a pair is linked at
// most once however often it is declared.
func (o *Ontology) link(edges []edge) {
	seen := make(map[edge]struct{}, len(edges))
	for _, e := range edges {
		child, ok := o.index[e.child]
		if !ok {
			continue
		}
		parent, ok := o.index[e.parent]
		if !ok {
			continue
		}
		key := edge{child: child.ID, parent: parent.ID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		child.Parents = append(child.Parents, parent.ID)
		parent.Children = append(parent.Children, child.ID)
	}
}
