// Package http serves the local JSON API of the portal runtime.
//
// It wires the chi router, the route guard protecting catalog, user and file
// endpoints, the auth endpoints with their rate limit, and the cross-cutting
// middleware (trace ids, access logging, gzip) before requests are handed
// to the service layer.
package http
