// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Palette survey API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, uploader, cfg, metrics)

Every route is wrapped with request logging and Prometheus latency metrics.

# Endpoints

Health and monitoring:

	GET /health
	GET /metrics

Survey (public; POST routes are rate limited per client):

	GET  /pairs                        - Complete A/B pairs
	GET  /photos                       - Photos, optionally ?originalId= or ?author=
	POST /votes                        - Record a pairwise vote
	GET  /votes/{originalId}/stats     - Vote split for one subject
	POST /ratings                      - Rate one photo 1-5
	GET  /photos/{id}/ratings/summary  - Count and mean score
	POST /favorites                    - Gallery picks, one 5 each

Admin (requires Authorization: Bearer <token>):

	POST   /admin/session       - Exchange password for a token (no token needed)
	POST   /admin/photos        - Add photos by URL
	POST   /admin/photos/upload - Upload photo files
	DELETE /admin/photos/{id}   - Remove a photo
	GET    /admin/pairs         - Every subject, complete or not
	GET    /admin/dashboard     - Totals, author stats, photo stats

Files:

	GET /files/{name} - Local uploads, when the local provider is configured
*/
package router
