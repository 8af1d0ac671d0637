// Package resources serves the dashboard stylesheet. Builds with the dev tag
// read it from disk so edits show up without a rebuild.
package resources

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"
