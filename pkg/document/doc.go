// Package document holds the objects of a jig document: free objects with
// a directly set placement and attached objects whose placement is derived
// from references to other objects. It validates the dependency graph,
// recomputes attachments level by level and persists their state.
package document
