// Package tasks runs the long operations around the catalog with progress reporting.
//
// # Operations
//
//  1. [Importer.Run] : read a [services.Source] and save each record
//     - Malformed rows and failed saves are collected as [RowError]s and do not stop the run
//     - Records without a platform get [ImportOpts.DefaultPlatform]
//     - Progress is recorded on a [models.ImportJob] through the optional [JobRecorder]
//
//  2. [FetchCovers] : download cover images with a rate limited worker pool
//     - Files are named after the item ID with the image's extension
//     - Per-item failures are reported in [CoversResult], not returned
//
//  3. [Export] : render a [formatter.Snapshot] to disk
//     - With covers requested, images are fetched first and linked from the Markdown page
//     - A JSON manifest describing the run is written next to the export
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking, so a slow reader loses updates rather than stalling work.
package tasks
