// Package headless is a client for the Indexed headless webshop REST API.
//
// Requests are authenticated with HTTP Basic auth: anonymous catalog reads
// (GET /products) use the public token, everything else the consumer key and
// secret. GET responses can be cached on disk, optionally in named groups that
// can be invalidated together:
//
//	client := headless.New(headless.Identity{ConsumerKey: "ck", ConsumerSecret: "cs", PublicToken: "pt"})
//	resp, err := client.Get(ctx, "/categories", headless.CacheDefault(), headless.InGroup("menu"))
//	...
//	err = client.ClearCacheGroup("menu")
package headless
