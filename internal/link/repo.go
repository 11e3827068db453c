package link

import (
	"context"
	"database/sql"
	"fmt"

	"genhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Insert(ctx context.Context, l models.FamilyLink) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO family_links (id, user_id, person_id_1, person_id_2, link_type)
		VALUES (?, ?, ?, ?, ?)
	`, l.ID, l.UserID, l.PersonID1, l.PersonID2, l.LinkType)
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, ownerID string) ([]models.FamilyLink, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, person_id_1, person_id_2, link_type, created_at
		FROM family_links
		WHERE user_id = ?
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var out []models.FamilyLink
	for rows.Next() {
		var l models.FamilyLink
		if err := rows.Scan(&l.ID, &l.UserID, &l.PersonID1, &l.PersonID2, &l.LinkType, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM family_links
		WHERE id = ? AND user_id = ?
	`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete link: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// PersonExists reports whether a person belongs to the owner's tree.
func (r *Repo) PersonExists(ctx context.Context, ownerID, personID string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `
		SELECT 1 FROM persons WHERE id = ? AND user_id = ?
	`, personID, ownerID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("person exists: %w", err)
	}
	return true, nil
}
