// Package wordstore persists named word lists as newline-delimited text
// files and provides sortable, editable projections of a list that always
// write back to the canonical file order. Bundled default lists are
// embedded in the binary and used until the user saves their own copy.
package wordstore
