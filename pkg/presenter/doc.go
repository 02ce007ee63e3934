// Package presenter decides what a received push turns into on screen.
//
// Given a normalized payload.Record and a snapshot of the tray, a Decider
// records the message body in the registry and returns a Decision: either a
// standalone RenderRequest keyed by the record's notification id, or, when
// other notifications are already visible, a group summary listing every
// pending body under one reserved id. The Decision also says whether the
// tray must be cleared first and which Alert (sound stream, volume, do not
// disturb override, vibration) goes with the message.
//
// Standalone requests pick one of three styles from the record:
//
//   - inbox: stacked lines once the id holds more than one body
//   - picture: a large image with the body as caption
//   - text: expanded body text (the default)
//
// Summary lines use "%n%" as the count placeholder, for example "%n% more".
//
// The package is pure policy: it never touches the tray, plays sounds or
// fetches images. RenderRequest and Alert are handed to platform
// implementations by the lifecycle package.
package presenter
