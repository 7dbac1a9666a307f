// Package lines reads files line by line in fixed-size chunks without
// materializing them fully in memory, yielding a bounded number of lines.
//
// It exists for log retrieval: a large or unbounded log file can be
// sampled with a fixed memory ceiling and cooperative cancellation.
package lines
