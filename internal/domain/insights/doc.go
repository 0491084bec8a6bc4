// Package insights derives read-only views from a planner Document:
// dashboard counts, today's classes, upcoming tasks, due date urgency,
// per-subject task counts, completion percentage and the weekly timetable.
//
// Every function is pure. Results are recomputed from the Document on each
// call and never share backing arrays with it, so sorting a view never
// reorders stored collections.
package insights
