// Package ir decodes weakly typed payloads into schema typed document
// graphs.
//
// # Documents
//
// [Decode] checks a payload (nested *format.Map, []any and scalars) against
// a compiled [schema.Schema] and returns a [Document]. A document owns its
// nodes in a flat table; a [Node] is a small handle (document, [ID]) and
// parent links and reference targets are IDs, never owning pointers.
//
// Nodes are viewed through kind specific wrappers obtained from a Node:
//
//   - [Record]: the fields declared by a schema record.
//   - [StateGroup]: one variant out of a declared set, decoded from a bare
//     variant name or a [variant, payload] pair. [Switch] dispatches on the
//     variant and requires a case for every declared variant; Cast narrows
//     to one variant or fails with a [CastError].
//   - [Dictionary]: entries by key in insertion order, plus named orderings
//     which link entries through a successor field ("no", or ["yes",
//     {next: key}]).
//   - [Set]: members with identity membership.
//   - [Reference]: entry keys naming a node in a dictionary, resolved on
//     first use and memoized.
//
// # Decoding and resolving
//
// Decoding builds nodes top down and reports every shape mismatch with its
// path. Eagerly decoded documents with shape errors are not returned. The
// resolve pass then resolves every reference in decode order and evaluates
// record checks; its failures are collected as [Diagnostics] and never stop
// the pass.
//
// With [Lazy], record fields, state group payloads and dictionary entries
// are decoded on first access and references resolve on first Target
// call. [Document.Resolve] forces everything and yields the same graph an
// eager decode would.
//
// # Paths
//
// Every node has a structural path: "types[a].next?yes.next" names the
// next field of the yes variant of field next of entry a of dictionary
// types. The root path is empty. [Find] follows such paths.
package ir
