// Package collection implements the runtime's collection classes: Array,
// Dictionary, Set and IndexSet, each with a mutable builder type.
//
// Collections retain their elements on insert and release them on removal
// and when the collection itself is destroyed. The immutable types expose no
// mutating methods; a mutable collection becomes immutable through Freeze,
// after which its mutating methods panic.
package collection
