package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"genhub/pkg/database"
	"genhub/pkg/models"
)

func main() {
	var (
		personsIn = flag.String("persons", "data/persons.csv", "input CSV path for persons")
		linksIn   = flag.String("links", "data/family_links.csv", "input CSV path for family links")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := importPersons(ctx, db, *personsIn); err != nil {
		log.Fatalf("import persons failed: %v", err)
	}
	if err := importLinks(ctx, db, *linksIn); err != nil {
		log.Fatalf("import family links failed: %v", err)
	}

	log.Printf("✅ imported persons from %s and family links from %s", *personsIn, *linksIn)
}

func importPersons(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO persons (id, user_id, first_name, last_name, gender, birth_date, birth_place, death_date, death_place, photo, notes, region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  first_name = excluded.first_name,
		  last_name = excluded.last_name,
		  gender = excluded.gender,
		  birth_date = excluded.birth_date,
		  birth_place = excluded.birth_place,
		  death_date = excluded.death_date,
		  death_place = excluded.death_place,
		  photo = excluded.photo,
		  notes = excluded.notes,
		  region = excluded.region
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		id := valueAt(header, row, "id")
		userID := valueAt(header, row, "user_id")
		firstName := valueAt(header, row, "first_name")
		lastName := valueAt(header, row, "last_name")
		if id == "" || userID == "" || firstName == "" || lastName == "" {
			continue
		}

		gender := valueAt(header, row, "gender")
		if !models.ValidGender(gender) {
			gender = models.GenderUnknown
		}

		if _, err := stmt.ExecContext(
			ctx,
			id,
			userID,
			firstName,
			lastName,
			gender,
			nullString(valueAt(header, row, "birth_date")),
			nullString(valueAt(header, row, "birth_place")),
			nullString(valueAt(header, row, "death_date")),
			nullString(valueAt(header, row, "death_place")),
			nullString(valueAt(header, row, "photo")),
			nullString(valueAt(header, row, "notes")),
			nullString(valueAt(header, row, "region")),
		); err != nil {
			return err
		}
	}

	return nil
}

func importLinks(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO family_links (id, user_id, person_id_1, person_id_2, link_type)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  person_id_1 = excluded.person_id_1,
		  person_id_2 = excluded.person_id_2,
		  link_type = excluded.link_type
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		id := valueAt(header, row, "id")
		userID := valueAt(header, row, "user_id")
		person1 := valueAt(header, row, "person_id_1")
		person2 := valueAt(header, row, "person_id_2")
		linkType := valueAt(header, row, "link_type")
		if id == "" || userID == "" || person1 == "" || person2 == "" {
			continue
		}
		if person1 == person2 || !models.KnownLinkType(linkType) {
			continue
		}

		if _, err := stmt.ExecContext(ctx, id, userID, person1, person2, linkType); err != nil {
			return err
		}
	}

	return nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func nullString(raw string) sql.NullString {
	if raw == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
