// Package batch runs per-row work over large inputs with bounded
// concurrency while preserving the 1:1 correspondence between input index
// and output index.
//
// Rows are embarrassingly parallel: each row's outcome (value or error) is
// written to its own slot, so no ordering exists between rows and a single
// failing row never aborts the batch. Context cancellation stops submitting
// further rows; rows already completed keep their results and the remaining
// slots report the context error.
package batch
