// Package stats turns bucketed wind-speed samples into the numbers reports
// consume: frequency tables, NaN-aware summaries, bootstrap confidence
// intervals on the median, and season-shape series.
//
// Missing samples are NaN and are never counted, averaged or binned. Every
// function that would divide by a zero population returns ErrEmptyBucket
// instead.
package stats
