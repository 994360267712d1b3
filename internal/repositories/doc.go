// Package repositories implements SQLite persistence for radar.
//
// Key Implementations:
//   - [TokenRepository] : the access token under a single well-known key, surviving restarts
//   - [PlayRepository] : plays observed by the now-playing poll, aggregated per day for the heatmap
//
// Both repositories expect a database migrated with [shared.RunMigrations].
package repositories
