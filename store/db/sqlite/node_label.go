package sqlite

import (
	"context"
	"fmt"

	"github.com/lyon1/condense/store"
)

func (d *DB) WriteNodeLabels(ctx context.Context, graphID int32, key string, labels map[int64]string) error {
	if len(labels) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO node_label (graph_id, node_id, label_key, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (graph_id, label_key, node_id) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("failed to prepare node label upsert: %w", err)
	}
	defer stmt.Close()

	for nodeID, value := range labels {
		if _, err := stmt.ExecContext(ctx, graphID, nodeID, key, value); err != nil {
			return fmt.Errorf("failed to write node label %d: %w", nodeID, err)
		}
	}

	return tx.Commit()
}

func (d *DB) ListNodeLabels(ctx context.Context, graphID int32, key string) (map[int64]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT node_id, value FROM node_label WHERE graph_id = ? AND label_key = ?", graphID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query node labels: %w", err)
	}
	defer rows.Close()

	labels := make(map[int64]string)
	for rows.Next() {
		var nodeID int64
		var value string
		if err := rows.Scan(&nodeID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan node label: %w", err)
		}
		labels[nodeID] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate node labels: %w", err)
	}

	return labels, nil
}

func (d *DB) DeleteNodeLabels(ctx context.Context, graphID int32, key string) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM node_label WHERE graph_id = ? AND label_key = ?", graphID, key); err != nil {
		return fmt.Errorf("failed to delete node labels: %w", err)
	}
	return nil
}
