package encode

type EncodeOption func(*EncState)

// Depth limits rendering to n levels below the starting node. Zero means
// no limit.
func Depth(n int) EncodeOption {
	return func(es *EncState) { es.maxDepth = n }
}
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

// EncodeRefs shows reference states and targets. Rendering with it forces
// resolution of every reference reached.
func EncodeRefs(v bool) EncodeOption {
	return func(es *EncState) { es.refs = v }
}

// EncodeCounts shows non-zero reference counts.
func EncodeCounts(v bool) EncodeOption {
	return func(es *EncState) { es.counts = v }
}
