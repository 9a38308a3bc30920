package tree

import "context"

// IsLoopSafe reports whether possibleParent is a legal reference node when
// placing forNode. A nil forNode means a node is being created, so every
// reference is safe. Otherwise the reference must be neither forNode itself
// nor anywhere inside its subtree.
func IsLoopSafe(ctx context.Context, forNode, possibleParent NodeRef) (bool, error) {
	if forNode == nil {
		return true, nil
	}
	if possibleParent.ID() == forNode.ID() {
		return false, nil
	}
	descendant, err := possibleParent.IsDescendantOf(ctx, forNode)
	if err != nil {
		return false, err
	}
	return !descendant, nil
}
