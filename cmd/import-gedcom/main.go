package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/cacack/gedcom-go/decoder"
	"github.com/google/uuid"

	"genhub/internal/gedcomio"
	"genhub/internal/tree"
	"genhub/pkg/database"
)

func main() {
	var (
		in     = flag.String("in", "", "input GEDCOM path")
		userID = flag.String("user", "", "owner id for the imported tree")
	)
	flag.Parse()

	if *in == "" || *userID == "" {
		log.Fatal("usage: import-gedcom -in tree.ged -user <user-id>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open %s: %v", *in, err)
	}
	defer f.Close()

	doc, err := decoder.Decode(f)
	if err != nil {
		log.Fatalf("decode gedcom: %v", err)
	}

	persons, links := gedcomio.FromDocument(doc, *userID, uuid.NewString)

	repo := tree.NewRepo(db)
	for _, p := range persons {
		if err := repo.InsertPerson(ctx, p); err != nil {
			log.Fatalf("insert person %s: %v", p.ID, err)
		}
	}
	for _, l := range links {
		if err := repo.InsertLink(ctx, l); err != nil {
			log.Fatalf("insert link %s: %v", l.ID, err)
		}
	}

	log.Printf("✅ imported %d persons and %d links from %s", len(persons), len(links), *in)
}
