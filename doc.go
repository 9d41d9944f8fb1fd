// Package banker provides a deadlock-avoidance engine built around the
// Banker's Algorithm.
//
// The engine models per-process resource claims and allocations for a
// fixed-size system, decides whether a state is safe (all processes can run
// to completion in some order), and arbitrates incoming resource requests by
// hypothetically applying each one and granting it only when the system
// stays safe.  It comes with pluggable service layers:
//
//   - loader   – state files (plain text or YAML) from any afs URL scheme
//   - safety   – the pure safety check over a state snapshot
//   - decision – queue-fed request arbitration with policies and events
//
// End-users typically interact with the engine via the high-level Service
// façade exposed by the root package:
//
//	srv := banker.New()
//	rt := srv.Runtime()
//	state, _ := rt.LoadState(ctx, "state.txt")
//	result, _ := rt.Evaluate()
//	decision, _ := rt.Decide(ctx, &decision.Request{Process: 1, Amounts: []int{1, 0, 2}})
//
// For more details see the individual sub-packages.
package banker
