// Package probe performs HTTP health probes against single URLs.
//
// The main components are:
//
//   - [Client]: one GET attempt bounded by a per-attempt timeout
//   - [Prober]: sequential attempts with a fixed delay between failures
//   - [Result]: outcome of probing one URL
//
// Only transport failures (dial, DNS, TLS, timeouts) are retried. A response
// with any status code, 4xx and 5xx included, ends the probe successfully.
package probe
