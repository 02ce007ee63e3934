// Package tray is an in-memory notification tray.
//
// MemoryTray implements the tray and device effects the lifecycle router
// renders into. It keeps notifications most recent first, converts HTML
// titles and bodies to plain text, records played alerts and the launcher
// badge, and, when given an image fetcher, downloads picture and large icon
// images at render time. Failed downloads are logged and the notification is
// still shown.
package tray
