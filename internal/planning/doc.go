// Package planning groups the motion-planning stages that run once per
// planning cycle against a candidate path in the Frenet (s, l) frame.
//
// Layout:
//
//	frenet       - path points, SL boundaries, arclength lookup
//	reference    - reference line queried by arclength for (x, y, heading)
//	vehicle      - ego vehicle geometry
//	decision     - Ignore / Stop / Nudge decision values and merge rules
//	pathdecision - per-cycle obstacle table holding the decisions
//	pathdecider  - static obstacle decision pass
//	debugplot    - PNG rendering of one cycle for offline review
//
// Dependency rule: subpackages may depend on frenet, reference, vehicle and
// decision, never on pathdecider or debugplot. No SQL or device I/O is
// allowed under planning/.
package planning
