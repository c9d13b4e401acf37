// Package assets embeds the files the server ships with: the default theme
// list, SQL migrations and the browser front end.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed themes.json
var themesJSON []byte

//go:embed sql/*.sql
var migrations embed.FS

//go:embed web
var web embed.FS

// DefaultThemes returns the embedded theme document.
func DefaultThemes() ([]byte, error) {
	out := make([]byte, len(themesJSON))
	copy(out, themesJSON)
	return out, nil
}

// Migrations returns the SQL migration files rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Web returns the static front end rooted at its directory.
func Web() fs.FS {
	sub, err := fs.Sub(web, "web")
	if err != nil {
		panic(err)
	}
	return sub
}
