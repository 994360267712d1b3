// Package server hosts the local page the login redirect lands on.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// [RequestLogger] records each request through charm's logger.
//
// # Callback Handler
//
// [CallbackHandler] serves /callback. It feeds the redirect's query string to an [auth.Callback],
// renders a success or error page, and publishes the outcome on [CallbackHandler.Result].
//
// Only the first redirect is evaluated; repeats render the same outcome without touching the session.
//
// # Local Server
//
// [LocalServer] runs the router for the duration of a CLI login. The backend redirects the browser to
// http://127.0.0.1:3000/callback by default, so the configured address must match the backend's
// frontend URL.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
