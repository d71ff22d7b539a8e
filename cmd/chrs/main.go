package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"github.com/mayhemheroes/chess-rs/internal/diagram"
	"github.com/mayhemheroes/chess-rs/internal/game"
	"github.com/mayhemheroes/chess-rs/internal/shell"
	"github.com/mayhemheroes/chess-rs/internal/storage"
)

var (
	fen      = flag.String("fen", "", "start from this position instead of the initial one")
	dbDir    = flag.String("db", "", "database directory (default: user data directory)")
	noDB     = flag.Bool("nodb", false, "run without a database")
	verbose  = flag.Bool("v", false, "verbose logging")
	size     = flag.Int("size", diagram.DefaultOptions().Size, "diagram size in pixels")
	flip     = flag.Bool("flip", false, "draw diagrams from Black's side")
	noCoords = flag.Bool("nocoords", false, "omit coordinates from diagrams")
)

func main() {
	flag.Parse()

	log.SetHandler(cli.New(os.Stderr))
	log.SetLevel(log.WarnLevel)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := run(); err != nil {
		log.WithError(err).Error("chrs")
		os.Exit(1)
	}
}

func run() error {
	g := game.New()
	if *fen != "" {
		var err error
		if g, err = game.FromFEN(*fen); err != nil {
			return err
		}
	}

	var store *storage.Storage
	if !*noDB {
		var err error
		if *dbDir != "" {
			store, err = storage.Open(*dbDir)
		} else {
			store, err = storage.OpenDefault()
		}
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()
	}

	sh := shell.New(g, store, os.Stdin, os.Stdout)
	sh.SetDiagramOptions(diagram.Options{
		Size:        *size,
		Flip:        *flip,
		Coordinates: !*noCoords,
	})
	return sh.Run()
}
