// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	r.Use(middleware.WithLogging)

Logs request start (method, path, remote, request_id) and completion
(status, bytes, duration_ms). The request ID comes from chi's RequestID
middleware when it runs first.

# CORS Middleware

	r.Use(middleware.CORS)

Allows GET, POST and OPTIONS with the Content-Type, X-Admin-Key, X-Voter-ID
and X-Voter-Key headers. Preflight requests are answered directly.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.CodedErrorResponse(w, http.StatusConflict, "invalid_phase", err.Error())

Parse JSON request bodies (1 MiB limit, unknown fields rejected):

	var req models.AddProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
