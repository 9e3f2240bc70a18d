// Package services implements the driving ports.
//
// RAGService is the question answering pipeline: extract, chunk, embed and
// index at ingest time; embed, retrieve, prompt and generate at query time.
// SettingsService maps config.toml onto domain.AppSettings.
//
// Services only talk to driven ports, never to concrete adapters.
package services
