// Package scaffold creates the skeleton of a new solution package.
//
// A package is a directory holding a Cargo.toml rendered from an embedded
// template and a static src/main.rs stub. The only substitution is the
// package name in the manifest; the entry point is written byte-for-byte.
//
// Key responsibilities:
//   - Refuse to touch anything when the target already exists
//   - Create <name>/ and <name>/src/
//   - Render and write the two template files
package scaffold
