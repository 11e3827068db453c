package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cacack/gedcom-go/encoder"

	"genhub/internal/gedcomio"
	"genhub/internal/tree"
	"genhub/pkg/database"
)

func main() {
	var (
		out    = flag.String("out", "data/tree.ged", "output GEDCOM path")
		userID = flag.String("user", "", "owner id of the tree to export")
	)
	flag.Parse()

	if *userID == "" {
		log.Fatal("usage: export-gedcom -user <user-id> [-out tree.ged]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := tree.NewRepo(db)
	persons, err := repo.PersonsByOwner(ctx, *userID)
	if err != nil {
		log.Fatalf("load persons: %v", err)
	}
	links, err := repo.LinksByOwner(ctx, *userID)
	if err != nil {
		log.Fatalf("load links: %v", err)
	}

	doc, dropped := gedcomio.ToDocument(persons, links)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	if err := encoder.Encode(f, doc); err != nil {
		log.Fatalf("encode gedcom: %v", err)
	}

	if dropped > 0 {
		log.Printf("dropped %d links with no GEDCOM equivalent", dropped)
	}
	log.Printf("✅ exported %d persons to %s", len(persons), *out)
}
