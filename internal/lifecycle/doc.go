// Package lifecycle holds the appointment and contract lifecycle rules the
// gateway derives view state from: the status model, the viewer role
// resolver, the action deadline tracker, evidence upload gating and the
// deposit/full payment display classifier. Nothing here performs I/O; the
// backend remains the authority on every status.
package lifecycle
