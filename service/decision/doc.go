// Package decision implements the request arbiter: each incoming resource
// request is applied to a clone of the current state, the clone is
// re-derived and safety-checked, and the request is granted only when the
// resulting state stays safe.  Denied requests leave the committed state
// untouched.
package decision
