// Package trace records pointer gestures and replays them through the
// alignment engine.
//
// A [Trace] captures everything needed to reproduce a drag session: the
// container, the starting box, grid and snap settings, and the timed
// pointer events. Replaying a trace is deterministic, so traces double as
// regression fixtures for snap behavior.
//
// Traces persist through a [Store]. Two backends are provided:
//   - [FileStore]: one JSON file per trace, for the CLI
//   - [RedisStore]: Redis keys plus a time-ordered index, for shared use
package trace
