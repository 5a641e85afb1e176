// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

/*
Package api exposes Ning over HTTP/JSON using the chi router.

Routes:

	POST   /auth/register                 create an account
	POST   /auth/login                    exchange credentials for a bearer token
	GET    /auth/me                       current user (auth)
	POST   /auth/logout                   revoke the token (auth)
	GET    /forum/posts                   list posts (?offset&limit)
	POST   /forum/posts                   create a post (auth)
	GET    /forum/posts/{id}              get a post
	PUT    /forum/posts/{id}              update own post (auth)
	DELETE /forum/posts/{id}              soft-delete own post (auth)
	POST   /forum/posts/{id}/like         toggle like (auth)
	GET    /forum/posts/{id}/comments     list comments
	POST   /forum/posts/{id}/comment      add a comment (auth)
	DELETE /forum/comments/{id}           delete own comment, ?post_id= (auth)
	POST   /study/mistakes                record a mistake (auth)
	GET    /study/mistakes                list own mistakes (auth)
	DELETE /study/mistakes/{id}           delete own mistake (auth)
	GET    /study/stats                   aggregates, ?days (auth)
	GET    /study/recommendations         revisit suggestions, ?limit (auth)
	POST   /agent/session                 start an interview session (auth)
	GET    /agent/sessions                list own sessions (auth)
	POST   /agent/chat                    send a message (auth)
	GET    /agent/session/{id}            session log (auth)
	GET    /healthz                       liveness and store status
	GET    /metrics                       Prometheus exposition

Successful responses are the bare JSON payload. Errors use the envelope

	{"success":false,"detail":"...","error":{"code":"...","message":"...","request_id":"..."},"meta":{...}}

with status 401, 403, 404, 409 or 422 chosen from the wrapped models error
kind, and 500 for anything else.
*/
package api
