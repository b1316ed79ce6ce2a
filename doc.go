// Package bustracker is a client for the CTA Bus Tracker XML API
// (v1.0). It builds request URLs, fetches responses through a
// pluggable Transport, and decodes them into typed domain values:
// vehicles, routes, stops, patterns, arrival predictions and service
// bulletins.
//
// The upstream API has a handful of documented oddities the client
// preserves rather than corrects: timestamps arrive with or without a
// seconds component depending on the endpoint, a vehicle or prediction
// is delayed iff a dly child element exists (its text is irrelevant),
// and the stop-scoped service bulletin request reuses the rt query key
// for stop identifiers.
//
// ETA values should be computed against the tracker's own clock
// (ServerTime) rather than the local clock; the two regularly drift
// apart and the client logs a warning when the skew exceeds five
// seconds.
package bustracker
