package postgres

import (
	"context"
	"fmt"

	"github.com/lyon1/condense/store"
)

func (d *DB) CreateEdges(ctx context.Context, graphID int32, creates []*store.Edge) error {
	if len(creates) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO edge (graph_id, source_id, target_id) VALUES ($1, $2, $3)")
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer stmt.Close()

	for _, edge := range creates {
		if _, err := stmt.ExecContext(ctx, graphID, edge.SourceID, edge.TargetID); err != nil {
			return fmt.Errorf("failed to create edge %d -> %d: %w", edge.SourceID, edge.TargetID, err)
		}
	}

	return tx.Commit()
}

func (d *DB) ListEdges(ctx context.Context, find *store.FindEdge) ([]*store.Edge, error) {
	query := `
		SELECT id, graph_id, source_id, target_id
		FROM edge
		WHERE graph_id = $1
		ORDER BY id ASC`

	rows, err := d.db.QueryContext(ctx, query, find.GraphID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Edge, 0)
	for rows.Next() {
		var edge store.Edge
		if err := rows.Scan(&edge.ID, &edge.GraphID, &edge.SourceID, &edge.TargetID); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		list = append(list, &edge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate edges: %w", err)
	}

	return list, nil
}

func (d *DB) CountEdges(ctx context.Context, graphID int32) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM edge WHERE graph_id = $1", graphID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count edges: %w", err)
	}
	return count, nil
}
