// Package store holds the most recent round for the status API and fans
// rounds out to live subscribers.
//
// This package is internal to sitecheck. It keeps exactly one round: every
// update replaces the previous snapshot, so nothing accumulates across
// rounds. Subscribers receive updates via channels with non-blocking sends
// (slow subscribers miss updates rather than block the scheduler).
//
// The main components are:
//
//   - [Store]: Interface defining storage and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [RoundSnapshot]: JSON representation of one round
package store
