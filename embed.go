package notionblog

import "embed"

// EmbeddedAssets holds tocboot.js, the loader that starts the table of
// contents on blog pages.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
