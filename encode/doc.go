// Package encode renders decoded document graphs and their diagnostics as
// human readable text.
//
// # Usage
//
//	doc, diags := ir.Decode(s, raw)
//	if diags.HasErrors() {
//	    encode.Diagnostics(os.Stderr, "doc.yaml", src, diags)
//	}
//	err := encode.Tree(doc.Root(), os.Stdout, encode.EncodeRefs(true))
//
// Tree prints one line per node, indented by depth. Record fields are
// labelled by name, dictionary entries by [key], set members by {i} and
// state groups by their variant (?variant). References print their entry
// key and, with EncodeRefs, the path of their target.
package encode
