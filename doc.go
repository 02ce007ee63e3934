// Package pushkit is the core of a mobile push notification plugin.
//
// It turns heterogeneous push payloads into one canonical record, decides how
// each message is shown (alone, as an inbox, as a picture, or folded into a
// group summary), escalates critical alerts, and routes receive, tap and
// dismiss events between the notification tray and the hosted application.
//
// The packages under pkg/ can be used on their own. New wires them together:
//
//	var cfg pushkit.Config
//	if err := config.Load(&cfg, config.WithPrefix("PUSHKIT_")); err != nil {
//	    return err
//	}
//	kit := pushkit.New(cfg, tray, bridge,
//	    pushkit.WithLogger(log),
//	    pushkit.WithResolver(strings),
//	    pushkit.WithEffects(effects),
//	    pushkit.WithAppState(appState),
//	)
//	defer kit.Close(ctx)
//
//	err := kit.Router.Received(ctx, payload.Bag{"title": "Hi", "message": "There"})
//
// cmd/pushd serves a Kit over HTTP for local development.
package pushkit
