// Package connectors holds the document sources that feed the ingest
// pipeline. The filesystem connector walks local paths; the HTTP API and
// MCP server hand uploaded files to the pipeline directly.
package connectors
