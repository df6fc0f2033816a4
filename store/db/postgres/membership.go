package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lyon1/condense/store"
)

func (d *DB) ListMemberships(ctx context.Context, find *store.FindMembership) ([]*store.Membership, error) {
	where := []string{"graph_id = $1", "run_id = $2", "candidate = $3"}
	args := []any{find.GraphID, find.RunID, find.Candidate}

	if v := find.NodeID; v != nil {
		where, args = append(where, "node_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT graph_id, node_id, super_node_id, run_id, candidate
		FROM membership
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY node_id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Membership, 0)
	for rows.Next() {
		var membership store.Membership
		if err := rows.Scan(
			&membership.GraphID,
			&membership.NodeID,
			&membership.SuperNodeID,
			&membership.RunID,
			&membership.Candidate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		list = append(list, &membership)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	return list, nil
}
