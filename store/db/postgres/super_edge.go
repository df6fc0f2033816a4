package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lyon1/condense/store"
)

func (d *DB) BuildSuperEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error) {
	result, err := d.db.ExecContext(ctx, `
		INSERT INTO super_edge (graph_id, run_id, candidate, source_id, target_id, weight)
		SELECT edge.graph_id, $1, $2, source_member.super_node_id, target_member.super_node_id, COUNT(*)
		FROM edge
		JOIN membership source_member ON source_member.graph_id = edge.graph_id
			AND source_member.run_id = $3
			AND source_member.candidate = $4
			AND source_member.node_id = edge.source_id
		JOIN membership target_member ON target_member.graph_id = edge.graph_id
			AND target_member.run_id = $5
			AND target_member.candidate = $6
			AND target_member.node_id = edge.target_id
		WHERE edge.graph_id = $7
			AND source_member.super_node_id <> target_member.super_node_id
		GROUP BY edge.graph_id, source_member.super_node_id, target_member.super_node_id`,
		runID, candidate, runID, candidate, runID, candidate, graphID)
	if err != nil {
		return 0, fmt.Errorf("failed to build super edges: %w", err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count super edges: %w", err)
	}
	return created, nil
}

func (d *DB) ListSuperEdges(ctx context.Context, find *store.FindSuperEdge) ([]*store.SuperEdge, error) {
	where, args := superEdgeWhere(find)

	query := `
		SELECT graph_id, run_id, candidate, source_id, target_id, weight
		FROM super_edge
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY source_id ASC, target_id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query super edges: %w", err)
	}
	defer rows.Close()

	list := make([]*store.SuperEdge, 0)
	for rows.Next() {
		var superEdge store.SuperEdge
		if err := rows.Scan(
			&superEdge.GraphID,
			&superEdge.RunID,
			&superEdge.Candidate,
			&superEdge.SourceID,
			&superEdge.TargetID,
			&superEdge.Weight,
		); err != nil {
			return nil, fmt.Errorf("failed to scan super edge: %w", err)
		}
		list = append(list, &superEdge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate super edges: %w", err)
	}

	return list, nil
}

func (d *DB) CountSuperEdges(ctx context.Context, find *store.FindSuperEdge) (int64, error) {
	where, args := superEdgeWhere(find)

	var count int64
	query := "SELECT COUNT(*) FROM super_edge WHERE " + strings.Join(where, " AND ")
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count super edges: %w", err)
	}
	return count, nil
}

func (d *DB) CountCoveredEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM edge
		JOIN membership source_member ON source_member.graph_id = edge.graph_id
			AND source_member.run_id = $1
			AND source_member.candidate = $2
			AND source_member.node_id = edge.source_id
		JOIN membership target_member ON target_member.graph_id = edge.graph_id
			AND target_member.run_id = $3
			AND target_member.candidate = $4
			AND target_member.node_id = edge.target_id
		WHERE edge.graph_id = $5`,
		runID, candidate, runID, candidate, graphID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count covered edges: %w", err)
	}
	return count, nil
}

func (d *DB) CountInternalEdges(ctx context.Context, graphID int32, runID, candidate string) (int64, error) {
	var count int64
	if err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM edge
		JOIN membership source_member ON source_member.graph_id = edge.graph_id
			AND source_member.run_id = $1
			AND source_member.candidate = $2
			AND source_member.node_id = edge.source_id
		JOIN membership target_member ON target_member.graph_id = edge.graph_id
			AND target_member.run_id = $3
			AND target_member.candidate = $4
			AND target_member.node_id = edge.target_id
		WHERE edge.graph_id = $5
			AND source_member.super_node_id = target_member.super_node_id`,
		runID, candidate, runID, candidate, graphID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count internal edges: %w", err)
	}
	return count, nil
}

func superEdgeWhere(find *store.FindSuperEdge) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.GraphID; v != nil {
		where, args = append(where, "graph_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RunID; v != nil {
		where, args = append(where, "run_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Candidate; v != nil {
		where, args = append(where, "candidate = "+placeholder(len(args)+1)), append(args, *v)
	}

	return where, args
}
