package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"genhub/pkg/database"
)

func main() {
	var (
		personsOut = flag.String("persons", "data/persons.csv", "output CSV path for persons")
		linksOut   = flag.String("links", "data/family_links.csv", "output CSV path for family links")
		userID     = flag.String("user", "", "export only this user's tree (default: all)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportPersons(ctx, db, *personsOut, *userID); err != nil {
		log.Fatalf("export persons failed: %v", err)
	}
	if err := exportLinks(ctx, db, *linksOut, *userID); err != nil {
		log.Fatalf("export family links failed: %v", err)
	}

	log.Printf("✅ exported persons to %s and family links to %s", *personsOut, *linksOut)
}

func exportPersons(ctx context.Context, db *sql.DB, outPath, userID string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "user_id", "first_name", "last_name", "gender", "birth_date", "birth_place", "death_date", "death_place", "photo", "notes", "region"}); err != nil {
		return err
	}

	query := `
        SELECT id, user_id, first_name, last_name, gender, birth_date, birth_place, death_date, death_place, photo, notes, region
        FROM persons
    `
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY last_name, first_name, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         string
			owner      string
			firstName  string
			lastName   string
			gender     string
			birthDate  sql.NullString
			birthPlace sql.NullString
			deathDate  sql.NullString
			deathPlace sql.NullString
			photo      sql.NullString
			notes      sql.NullString
			region     sql.NullString
		)

		if err := rows.Scan(&id, &owner, &firstName, &lastName, &gender, &birthDate, &birthPlace, &deathDate, &deathPlace, &photo, &notes, &region); err != nil {
			return err
		}

		if err := w.Write([]string{
			id,
			owner,
			firstName,
			lastName,
			gender,
			birthDate.String,
			birthPlace.String,
			deathDate.String,
			deathPlace.String,
			photo.String,
			notes.String,
			region.String,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportLinks(ctx context.Context, db *sql.DB, outPath, userID string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "user_id", "person_id_1", "person_id_2", "link_type"}); err != nil {
		return err
	}

	query := `
        SELECT id, user_id, person_id_1, person_id_2, link_type
        FROM family_links
    `
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, owner, person1, person2, linkType string
		if err := rows.Scan(&id, &owner, &person1, &person2, &linkType); err != nil {
			return err
		}

		if err := w.Write([]string{id, owner, person1, person2, linkType}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
