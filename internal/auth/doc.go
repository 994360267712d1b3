// Package auth owns the access token lifecycle.
//
// A [Session] is built once at startup from a [Store] and handed to every consumer that needs to know
// whether the user is signed in or needs the token for outbound requests. It implements
// [oauth2.TokenSource], so HTTP clients attach the bearer header without reaching into the session.
//
// A [Callback] consumes the query parameters of one authorization redirect and drives the session to
// signed in or reports why it could not. It runs at most once.
package auth
