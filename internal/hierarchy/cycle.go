package hierarchy

import "context"

// ValidateParentAssignment checks that giving nodeID the proposed parent
// cannot close a loop. It is the hard gate of the mutation path: it must
// run, and pass, before any changed parent link is persisted.
//
// An empty proposedParentID is a root assignment and always valid. Any
// failure here, including a missing proposed parent, blocks the save.
func (r *Resolver) ValidateParentAssignment(ctx context.Context, cache *OpCache, collection, nodeID, proposedParentID string) error {
	if proposedParentID == "" {
		return nil
	}
	if proposedParentID == nodeID {
		return &SelfReferenceError{Node: nodeID}
	}

	chain, err := r.BuildChain(ctx, cache, collection, proposedParentID)
	if err != nil {
		return err
	}
	switch chain.Termination {
	case TermCycle:
		return &CycleError{Node: nodeID, Through: proposedParentID}
	case TermDepth:
		return &DepthError{Node: nodeID, Max: r.maxDepth}
	case TermBroken:
		// Soft on the read path, hard here: validating against a chain we
		// cannot fully see would let a cycle through.
		return &LookupError{Collection: collection, ID: proposedParentID, Err: errBrokenChain}
	}

	for _, anc := range chain.Ancestors {
		if anc.ID == nodeID {
			return &CycleError{Node: nodeID, Through: proposedParentID}
		}
	}
	return nil
}
