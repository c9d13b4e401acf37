// twistle-term plays today's Twistle in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/assets"
	"github.com/robalobadob/twistle/internal/config"
	"github.com/robalobadob/twistle/internal/database"
	"github.com/robalobadob/twistle/internal/score"
	"github.com/robalobadob/twistle/internal/term"
	"github.com/robalobadob/twistle/internal/theme"
)

func main() {
	cfg := config.Load()

	var player string
	var memory bool
	flag.StringVar(&player, "player", "terminal", "score namespace for this player")
	flag.BoolVar(&memory, "memory", false, "keep the score in memory only")
	flag.Parse()

	// The screen belongs to the UI: logs go to TWISTLE_LOG_FILE or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			die(fmt.Sprintf("open log file: %v", err))
		}
		defer f.Close()
		logOut = f
	}
	log.Logger = zerolog.New(logOut).With().Timestamp().Logger()
	cfg.SetupLogging()

	var scores score.Provider = score.NewMemory()
	if !memory {
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			die(fmt.Sprintf("open database: %v", err))
		}
		defer db.Close()
		if err := database.Migrate(db, assets.Migrations()); err != nil {
			die(fmt.Sprintf("migrate: %v", err))
		}
		scores = score.NewSQL(db)
	}

	err := term.Run(term.Options{
		Catalog: theme.NewCatalog(theme.FromEnv(), cfg.ThemeTimeout),
		Scores:  scores.For(player),
		Game:    cfg.Game,
	})
	if err != nil {
		die(err.Error())
	}
}

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
