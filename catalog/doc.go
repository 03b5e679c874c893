// Package catalog ships curated sample data and bulk-loading helpers for
// populating the chain index and the knowledge base.
//
// Bulk loads follow a log-and-continue contract: one item's failure never
// aborts the batch. Transient provider outages are retried with Fibonacci
// backoff before an item is counted as failed.
package catalog
