package secblog

import "embed"

// EmbeddedAssets contains static assets shipped with the server:
// copy-code.js and site.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
