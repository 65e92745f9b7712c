// Package pool provides the job queue and the fixed-size worker pool that
// run probes for one round.
//
// The round owner enqueues one Check job per URL, reads exactly that many
// results from [Pool.Results], then calls [Pool.Shutdown], which enqueues one
// Quit job per worker and joins every worker before returning.
package pool
