package tree

import "errors"

// SkipChildren can be returned from a walk callback to skip a node's children.
var SkipChildren = errors.New("skip children") //nolint:errname,revive,staticcheck // mirrors fs.SkipDir

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(el RedElement) error

// Walk performs a pre-order traversal of the tree starting at root.
// Returning SkipChildren from walkFunc skips the element's children.
func Walk(root RedNode, walkFunc WalkFunc) error {
	return WalkWithContext(root, walkFunc, nil)
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting children, leave is called after.
// Either callback may be nil. Returning SkipChildren from enter skips the
// children but still calls leave.
func WalkWithContext(root RedNode, enter, leave WalkFunc) error {
	if root.Green == nil {
		return nil
	}
	err := walk(RedElement{node: root, isNode: true}, enter, leave)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func walk(el RedElement, enter, leave WalkFunc) error {
	skip := false

	// Enter the current element.
	if enter != nil {
		if err := enter(el); err != nil {
			if !errors.Is(err, SkipChildren) {
				return err
			}
			skip = true
		}
	}

	// Visit children.
	if node, ok := el.Node(); ok && !skip {
		for child := range node.Children() {
			if err := walk(child, enter, leave); err != nil {
				return err
			}
		}
	}

	// Leave the current element.
	if leave != nil {
		if err := leave(el); err != nil && !errors.Is(err, SkipChildren) {
			return err
		}
	}

	return nil
}
