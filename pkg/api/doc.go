// Package api exposes a lifecycle router over HTTP.
//
// It stands in for the mobile platform during development: pushes arrive as
// JSON objects, taps and dismissals are posted against tray ids, the app
// state is switched with a PUT, and the application side of the bridge is a
// server-sent event stream.
//
//	POST /push?from=sender              deliver a push payload
//	POST /notifications/{id}/tap        tap a notification or action
//	POST /notifications/{id}/dismiss    swipe a notification away
//	GET  /tray                          list shown notifications
//	GET  /app/state, PUT /app/state     read or change foreground/active
//	GET  /events                        stream bridge events (datastar SSE)
//	GET  /health/live, /health/ready    probes
//
// Responses use a {"data": ..., "error": {...}} envelope. Every request gets
// an event id, taken from the X-Event-ID header when present, which is echoed
// back and attached to log records.
package api
