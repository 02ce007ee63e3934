// Package media downloads remote notification images.
//
// Picture-style notifications and large icons may reference an http(s) URL.
// A Fetcher downloads such images with a bounded timeout and size, keeps the
// most recent ones in an LRU cache, and collapses concurrent requests for the
// same URL into one download.
//
//	f, err := media.NewFetcher(media.Config{Timeout: 5 * time.Second})
//	img, err := f.Fetch(ctx, "https://example.com/banner.png")
package media
