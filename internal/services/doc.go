// Package services implements import [Source]s for the catalog.
//
// # Files
//
// [FileSource] reads a JSON array of items or a CSV file whose header matches the export format
// (title, platform, status, price_paid, price_sold, tags, metacritic, image_url). The format is
// chosen by file extension.
//
// # Remote snapshots
//
// [SnapshotClient] fetches a JSON snapshot over HTTP. The body may be a bare array of items or an
// object with an "items" array, as served by the profile endpoint. It also downloads cover images
// for exports.
//
// # Error Handling
//
//   - [shared.ErrUnsupportedFormat] : unknown file extension
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
//   - [shared.ErrInvalidInput] : a single record could not be parsed (reported per row)
package services
