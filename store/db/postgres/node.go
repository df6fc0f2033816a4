package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lyon1/condense/store"
)

func (d *DB) UpsertNodes(ctx context.Context, graphID int32, upserts []*store.Node) error {
	if len(upserts) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO node (graph_id, id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (graph_id, id) DO UPDATE SET name = excluded.name`)
	if err != nil {
		return fmt.Errorf("failed to prepare node upsert: %w", err)
	}
	defer stmt.Close()

	for _, node := range upserts {
		if _, err := stmt.ExecContext(ctx, graphID, node.ID, node.Name); err != nil {
			return fmt.Errorf("failed to upsert node %d: %w", node.ID, err)
		}
	}

	return tx.Commit()
}

func (d *DB) ListNodes(ctx context.Context, find *store.FindNode) ([]*store.Node, error) {
	where, args := []string{"node.graph_id = $1"}, []any{find.GraphID}

	if v := find.IDs; len(v) > 0 {
		list := make([]string, 0, len(v))
		for _, id := range v {
			list = append(list, placeholder(len(args)+1))
			args = append(args, id)
		}
		where = append(where, "node.id IN ("+strings.Join(list, ", ")+")")
	}

	query := `
		SELECT graph_id, id, name
		FROM node
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY node.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Node, 0)
	for rows.Next() {
		var node store.Node
		if err := rows.Scan(&node.GraphID, &node.ID, &node.Name); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		list = append(list, &node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nodes: %w", err)
	}

	return list, nil
}

func (d *DB) CountNodes(ctx context.Context, graphID int32) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM node WHERE graph_id = $1", graphID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return count, nil
}

func (d *DB) ListNodeDegrees(ctx context.Context, graphID int32) ([]*store.NodeDegree, error) {
	query := `
		SELECT
			node.id,
			(SELECT COUNT(*) FROM edge WHERE edge.graph_id = node.graph_id AND edge.source_id = node.id)
			+ (SELECT COUNT(*) FROM edge WHERE edge.graph_id = node.graph_id AND edge.target_id = node.id) AS degree
		FROM node
		WHERE node.graph_id = $1
		ORDER BY node.id ASC`

	rows, err := d.db.QueryContext(ctx, query, graphID)
	if err != nil {
		return nil, fmt.Errorf("failed to query node degrees: %w", err)
	}
	defer rows.Close()

	list := make([]*store.NodeDegree, 0)
	for rows.Next() {
		var degree store.NodeDegree
		if err := rows.Scan(&degree.NodeID, &degree.Degree); err != nil {
			return nil, fmt.Errorf("failed to scan node degree: %w", err)
		}
		list = append(list, &degree)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate node degrees: %w", err)
	}

	return list, nil
}
