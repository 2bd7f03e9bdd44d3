// Package document holds the in-memory model of an OpenAPI document and its
// fragments.
//
// A document is a tree of [Map] (insertion-ordered mappings), []any
// sequences and scalar values (string, bool, int, float64, nil). The model
// keeps key order so that writing a document back to YAML or JSON produces
// stable, reviewable diffs.
//
// # Reading and writing
//
// [Parse] accepts JSON or YAML text. [MarshalJSON] and [MarshalYAML] write a
// value back out with two-space indentation:
//
//	doc, err := document.Parse(data)
//	if err != nil {
//		return err
//	}
//	out, err := document.MarshalYAML(doc)
//
// # Addressing
//
// A [Path] is a list of mapping keys and sequence indexes. [Path.Pointer]
// renders it as a JSON pointer, and [Get], [Set] and [Delete] operate on a
// document by path.
package document
