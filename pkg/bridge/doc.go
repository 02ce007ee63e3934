// Package bridge carries lifecycle events from the notification core to the
// hosted web application.
//
// An Event describes a received message delivered to a running app, a tap
// (optionally on an action button or with an inline reply), or a request to
// start the app in the background. Bridge implementations decide how the
// event reaches the application:
//
//   - MemoryBridge fans events out to in-process subscribers, for example a
//     server-sent-events handler feeding the web view. Slow subscribers drop
//     events instead of blocking delivery.
//   - WebhookBridge queues the event and a background worker POSTs it as
//     JSON to an HTTP endpoint, retrying temporary failures with exponential
//     backoff. Deliver never waits for the endpoint.
//   - Multi delivers to several bridges at once.
//
// Ready reports whether the application can accept events now. The
// lifecycle router polls it before handing over a tap that happened while
// the app was still starting. Deliver must not block on the network.
package bridge
