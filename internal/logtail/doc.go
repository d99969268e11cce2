// Package logtail reads the tail of the nabsearch log file.
//
// Read keeps a ring buffer of the last N lines so large logs are scanned
// once without holding the whole file. Parse decodes the logfmt lines the
// logrus text formatter writes:
//
//	time="2024-05-10T12:00:00Z" level=info msg="search finished" request_id=9b1d... results=42
//
// into an Entry with the time, level and message pulled out and every other
// pair in Fields. The about view shows the most recent entries so a failed
// search can be matched to its log lines by request id.
package logtail
