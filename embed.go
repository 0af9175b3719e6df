package folio

import "embed"

// StaticAssets holds the stylesheet served under /static/.
//
//go:embed static/*
var StaticAssets embed.FS
