// Package icon resolves a renderable image source for a traded item
// through a multi-tier fallback search: explicit id, verbatim catalog
// name, normalized-name index, longest-suffix match, then conventional
// local paths, and finally a remote image service.
//
// Resolution is pure with respect to its indices and safe to invoke
// concurrently for many items. Consumption of the resulting candidate list
// is driven by the Chain state machine, which never errors: an exhausted
// chain simply stops advancing.
package icon
