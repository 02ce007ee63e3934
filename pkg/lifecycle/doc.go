// Package lifecycle is the notification state machine.
//
// A Router accepts three input events, each raised by a different platform
// entry point:
//
//   - Received: a push message arrived.
//   - Tapped: the user opened a notification or pressed one of its actions.
//   - Dismissed: the user swiped a notification away.
//
// All three go through Handle, the single transition function over the
// shared registry. Received extracts the payload, applies badge and alert
// side effects, and asks the presenter what to render. When the app is in the
// foreground the message is handed to the application bridge instead of the
// tray unless ForceShow is set. Tapped and Dismissed consume the
// notification's registry entry and linked item id and keep the group summary
// consistent; only Tapped is routed to the application.
//
// Platform capabilities are interfaces: Tray renders and cancels
// notifications, Effects plays alerts and sets the launcher badge, and a
// bridge.Bridge delivers events to the application. A tap that happens while
// the application is still starting is held and re-offered every
// HandoffInterval until the bridge is ready, at most HandoffMaxAttempts times.
//
//	router := lifecycle.NewRouter(cfg, decider, tray, br,
//	    lifecycle.WithExtractor(extractor),
//	    lifecycle.WithEffects(effects),
//	    lifecycle.WithAppState(appState),
//	    lifecycle.WithLogger(log),
//	)
//	defer router.Close(context.Background())
//
//	err := router.Received(ctx, payload.Bag{"title": "Hi", "body": "There"})
package lifecycle
