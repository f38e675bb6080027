package libdiff

import "slices"

// Reverse returns the changes undoing cs.
func Reverse(cs []Change) []Change {
	res := make([]Change, len(cs))
	for i, c := range cs {
		switch c.Op {
		case InsertOp:
			c.Op = DeleteOp
		case DeleteOp:
			c.Op = InsertOp
		}
		c.From, c.To = c.To, c.From
		res[len(cs)-1-i] = c
	}
	return slices.Clip(res)
}
