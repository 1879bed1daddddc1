// Package file keeps user-editable configuration on disk: application
// settings as nested TOML (Store) and LLM prompt templates as plain text
// files (PromptStore). Environment variables prefixed PENSIEVE_ override
// file settings so secrets can stay out of the config file.
package file
