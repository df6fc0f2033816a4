package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lyon1/condense/store"
)

func (d *DB) CreateGraph(ctx context.Context, create *store.Graph) (*store.Graph, error) {
	fields := []string{"uid", "name"}
	args := []any{create.UID, create.Name}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		args = append(args, create.CreatedTs)
	}

	stmt := `INSERT INTO graph (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create graph: %w", err)
	}

	return create, nil
}

func (d *DB) ListGraphs(ctx context.Context, find *store.FindGraph) ([]*store.Graph, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "graph.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "graph.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "graph.name = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, uid, created_ts, name
		FROM graph
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY graph.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query graphs: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Graph, 0)
	for rows.Next() {
		var graph store.Graph
		if err := rows.Scan(
			&graph.ID,
			&graph.UID,
			&graph.CreatedTs,
			&graph.Name,
		); err != nil {
			return nil, fmt.Errorf("failed to scan graph: %w", err)
		}
		list = append(list, &graph)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate graphs: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteGraph(ctx context.Context, delete *store.DeleteGraph) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"super_edge", "membership", "super_node", "node_label", "edge", "node"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE graph_id = $1", delete.ID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM graph WHERE id = $1", delete.ID); err != nil {
		return fmt.Errorf("failed to delete graph: %w", err)
	}

	return tx.Commit()
}
