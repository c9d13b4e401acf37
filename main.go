// main.go
//
// Entry point for the Twistle server.
// Startup:
//   - Load .env and environment configuration, set the log level.
//   - Open SQLite and apply the embedded migrations.
//   - Prepare the theme catalog (embedded, THEMES_FILE or THEMES_URL) and try
//     a first load; a failure is logged and retried on the next game start.
//   - Serve the API, websocket feed and browser front end on PORT.

package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/assets"
	"github.com/robalobadob/twistle/internal/account"
	"github.com/robalobadob/twistle/internal/config"
	"github.com/robalobadob/twistle/internal/database"
	"github.com/robalobadob/twistle/internal/httpserver"
	"github.com/robalobadob/twistle/internal/score"
	"github.com/robalobadob/twistle/internal/store"
	"github.com/robalobadob/twistle/internal/theme"
)

func main() {
	cfg := config.Load()
	cfg.SetupLogging()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	src := theme.FromEnv()
	catalog := theme.NewCatalog(src, cfg.ThemeTimeout)
	if err := catalog.Load(context.Background()); err != nil {
		log.Warn().Err(err).Msg("themes not loaded yet; will retry on start")
	} else {
		t, w := catalog.Stats()
		log.Info().Str("source", src.String()).Int("themes", t).Int("words", w).Msg("themes loaded")
	}

	srv := httpserver.New(httpserver.Config{
		Game:         cfg.Game,
		CookieName:   cfg.CookieName,
		ClientOrigin: cfg.ClientOrigin,
		Production:   cfg.Production,
	}, httpserver.Deps{
		Sessions: store.NewMemoryStore(),
		Scores:   score.NewSQL(db),
		Catalog:  catalog,
		Accounts: account.NewRepo(db),
		Tokens:   account.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		Web:      assets.Web(),
	})

	log.Info().Str("port", cfg.Port).Msg("starting twistle")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
