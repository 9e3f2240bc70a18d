// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage in ~/.docqa/config.toml
//   - LoadDotEnv: .env loading for provider API keys
package file
