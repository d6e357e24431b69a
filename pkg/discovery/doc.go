// Package discovery enumerates the storage devices the monitor should poll.
//
// An Enumerator yields (address, kind) pairs. Static serves a fixed list
// taken from configuration; entries without an address get a generated
// UUID so every device still has a stable identity for the name table.
// Chain merges several enumerators and drops duplicate addresses.
package discovery
