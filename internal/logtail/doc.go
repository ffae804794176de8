// Package logtail reads the tail of lotwatch's own log file and turns the
// zap JSON entries into display lines for the activity log overlay.
//
// Read keeps only the last maxLines in a ring buffer, so memory stays bounded
// regardless of file size. A missing file is not an error: the overlay simply
// shows nothing until the first entry is written.
//
// Parse decodes one JSON entry. Lines that are not JSON (a stray panic trace,
// a hand-edited file) come back as a raw Entry carrying the text unchanged.
package logtail
