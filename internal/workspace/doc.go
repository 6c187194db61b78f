// Package workspace registers solution packages in the Cargo workspace
// manifest.
//
// The manifest is handled as a generic TOML tree (Document) rather than a
// typed struct, so unknown sibling keys such as [profile.*] or
// [workspace.dependencies] are carried through unchanged. Only the
// workspace.members array is modified, and it is always written back
// sorted and without duplicates.
package workspace
