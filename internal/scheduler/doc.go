// Package scheduler orchestrates rounds of website probes.
//
// A round starts a worker pool sized to the configured worker count,
// enqueues one job per URL, waits until every result has arrived, then
// stops and joins all workers. In periodic mode rounds repeat until a
// [shutdown.Flag] is raised, with the pause between rounds split into
// one-second increments so shutdown latency stays under a second.
package scheduler
