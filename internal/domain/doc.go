// Package domain contains the core planner entities and value objects:
// subjects, tasks, weekly schedule entries and the Document aggregate that
// holds them. It is independent of any storage or delivery mechanism.
//
// The Document is the unit of persistence. It is encoded as a single JSON
// record whose shape is shared by the persisted state and by backup exports,
// and decoding tolerates records written by older clients (numeric ids,
// string durations, missing top-level fields).
package domain
