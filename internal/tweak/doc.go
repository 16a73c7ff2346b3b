// Package tweak models the server-defined tweak schema of the active module.
//
// Core pieces:
//   - Kind: closed classification of rendered widgets, with an explicit unknown arm
//   - Schema: immutable, ordered controls parsed from the engine's markup
//   - Panel: the displayed schema, swapped atomically and versioned
//   - Binder: attaches one typed handler per supported control; rebinding
//     kills every handler from the previous schema
package tweak
