// Package services talks to the radar backend and the provider Web API.
//
// # Backend
//
// [APIService] wraps the backend's REST endpoints. Each typed method decodes the JSON body into a
// [models] DTO and validates it before returning, so callers never see a partially decoded payload.
// The session token, when present, is attached as a bearer header through an [oauth2.TokenSource].
//
// # Profile
//
// [ProfileService] reads /me from the provider with the same token, via github.com/zmb3/spotify/v2.
//
// # Error Handling
//
// Failures fall into three groups, mapped to user-facing text by [ErrorMessage]:
//   - [shared.ErrNetwork] : the request never produced a response ("Network error")
//   - [*APIError] : the backend answered with a non-2xx status, or a 2xx body that failed validation
//   - anything else : the per-endpoint default message
package services
