// Package patch edits raw payloads with RFC 6902 JSON patches and RFC
// 7396 merge patches.
//
// Payloads are patched as JSON, which does not keep mapping order, so the
// results are reordered afterwards: keys keep their order in the input,
// and keys added by the patch follow in the order the patch gives them.
package patch
