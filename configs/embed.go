// Package configs provides the embedded configuration template for wnexport.
//
// The template is embedded at build time so `wnexport config init` works from
// source builds and binary releases alike.
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config (~/.config/wnexport/config.yaml)
//  3. Project config (.wnexport.yaml)
//  4. Environment variables (WNEXPORT_*)
//  5. Command-line flags
package configs

import _ "embed"

// ConfigTemplate is written by `wnexport config init`, either to the user
// config path or to .wnexport.yaml with --project.
//
//go:embed config.example.yaml
var ConfigTemplate string
