package share

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

func (r *Repo) Create(ctx context.Context, s models.TreeShare) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO tree_shares (id, owner_id, grantee_id, role)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id, grantee_id) DO UPDATE SET role = excluded.role
	`, s.ID, s.OwnerID, s.GranteeID, s.Role)
	if err != nil {
		return fmt.Errorf("create share: %w", err)
	}
	return nil
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]models.TreeShare, error) {
	return r.list(ctx, `owner_id = ?`, ownerID)
}

func (r *Repo) ListByGrantee(ctx context.Context, granteeID string) ([]models.TreeShare, error) {
	return r.list(ctx, `grantee_id = ?`, granteeID)
}

func (r *Repo) list(ctx context.Context, where, arg string) ([]models.TreeShare, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, grantee_id, role, created_at
		FROM tree_shares
		WHERE `+where+`
		ORDER BY created_at, id
	`, arg)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	var out []models.TreeShare
	for rows.Next() {
		var s models.TreeShare
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.GranteeID, &s.Role, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Delete removes a share by id; only the granting owner may revoke.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM tree_shares
		WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete share: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// HasRole reports whether granteeID holds the given role on ownerID's
// tree. Edit implies view.
func (r *Repo) HasRole(ctx context.Context, ownerID, granteeID, role string) (bool, error) {
	var got string
	err := r.DB.QueryRowContext(ctx, `
		SELECT role FROM tree_shares
		WHERE owner_id = ? AND grantee_id = ?
	`, ownerID, granteeID).Scan(&got)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("share role: %w", err)
	}
	if role == models.ShareRoleView {
		return got == models.ShareRoleView || got == models.ShareRoleEdit, nil
	}
	return got == role, nil
}
