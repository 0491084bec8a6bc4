// Package service contains the application-specific use cases of the study
// planner. PlannerService owns the single in-memory Document and is the only
// code allowed to mutate it.
//
// Every mutation runs under one lock and follows the same sequence:
//
//  1. clone the current Document
//  2. apply the change to the clone
//  3. save the clone through the DocumentStore
//  4. make the clone the current Document
//
// A failed save therefore leaves the observable state equal to the last
// persisted state, and a subject deletion together with its cascade becomes
// visible in one step. Operations that change nothing (toggling or deleting
// an unknown id) do not save.
//
// The service depends on the DocumentStore interface, never on a specific
// record backend.
package service
