// Package httpapi exposes the engine over JSON HTTP with gin.
//
// Routes: POST /auth/login, POST /auth/refresh, POST /auth/logout (204) and
// GET /auth/me. Error statuses come from middleware.Status.
package httpapi
