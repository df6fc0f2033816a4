package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lyon1/condense/store"
)

func (d *DB) CreateSuperGroups(ctx context.Context, graphID int32, runID, candidate string, groups map[string][]int64) (int64, error) {
	if len(groups) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertNode, err := tx.PrepareContext(ctx, `
		INSERT INTO super_node (graph_id, run_id, candidate, group_key, member_count)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare super node insert: %w", err)
	}
	defer insertNode.Close()

	insertMember, err := tx.PrepareContext(ctx, `
		INSERT INTO membership (graph_id, node_id, super_node_id, run_id, candidate)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare membership insert: %w", err)
	}
	defer insertMember.Close()

	var created int64
	for _, key := range keys {
		members := groups[key]
		if len(members) == 0 {
			continue
		}

		var superNodeID int32
		if err := insertNode.QueryRowContext(ctx, graphID, runID, candidate, key, int64(len(members))).Scan(&superNodeID); err != nil {
			return 0, fmt.Errorf("failed to create super node %q: %w", key, err)
		}
		for _, nodeID := range members {
			if _, err := insertMember.ExecContext(ctx, graphID, nodeID, superNodeID, runID, candidate); err != nil {
				return 0, fmt.Errorf("failed to create membership for node %d: %w", nodeID, err)
			}
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// CreateSingletonFallback wraps every node still without a membership in
// the given scope. The rendered key must match store.NodeGroupKey.
func (d *DB) CreateSingletonFallback(ctx context.Context, graphID int32, runID, candidate string) (int64, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	uncovered := `SELECT 1 FROM membership
		WHERE membership.graph_id = node.graph_id
			AND membership.run_id = ?
			AND membership.candidate = ?
			AND membership.node_id = node.id`

	result, err := tx.ExecContext(ctx, `
		INSERT INTO super_node (graph_id, run_id, candidate, group_key, member_count)
		SELECT node.graph_id, ?, ?, 'n:' || node.id, 1
		FROM node
		WHERE node.graph_id = ? AND NOT EXISTS (`+uncovered+`)`,
		runID, candidate, graphID, runID, candidate)
	if err != nil {
		return 0, fmt.Errorf("failed to create fallback super nodes: %w", err)
	}
	created, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count fallback super nodes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO membership (graph_id, node_id, super_node_id, run_id, candidate)
		SELECT node.graph_id, node.id, super_node.id, ?, ?
		FROM node
		JOIN super_node ON super_node.graph_id = node.graph_id
			AND super_node.run_id = ?
			AND super_node.candidate = ?
			AND super_node.group_key = 'n:' || node.id
		WHERE node.graph_id = ? AND NOT EXISTS (`+uncovered+`)`,
		runID, candidate, runID, candidate, graphID, runID, candidate); err != nil {
		return 0, fmt.Errorf("failed to create fallback memberships: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

func (d *DB) ListSuperNodes(ctx context.Context, find *store.FindSuperNode) ([]*store.SuperNode, error) {
	where, args := superNodeWhere(find)

	query := `
		SELECT id, graph_id, run_id, candidate, group_key, member_count
		FROM super_node
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query super nodes: %w", err)
	}
	defer rows.Close()

	list := make([]*store.SuperNode, 0)
	for rows.Next() {
		var superNode store.SuperNode
		if err := rows.Scan(
			&superNode.ID,
			&superNode.GraphID,
			&superNode.RunID,
			&superNode.Candidate,
			&superNode.GroupKey,
			&superNode.MemberCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan super node: %w", err)
		}
		list = append(list, &superNode)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate super nodes: %w", err)
	}

	return list, nil
}

func (d *DB) CountSuperNodes(ctx context.Context, find *store.FindSuperNode) (int64, error) {
	where, args := superNodeWhere(find)

	var count int64
	query := "SELECT COUNT(*) FROM super_node WHERE " + strings.Join(where, " AND ")
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count super nodes: %w", err)
	}
	return count, nil
}

func (d *DB) DeleteSuperNodes(ctx context.Context, delete *store.DeleteSuperNodes) error {
	where, args := []string{"graph_id = ?", "run_id = ?"}, []any{delete.GraphID, delete.RunID}
	if v := delete.Candidate; v != nil {
		where, args = append(where, "candidate = ?"), append(args, *v)
	}
	if v := delete.ExceptCandidate; v != nil {
		where, args = append(where, "candidate <> ?"), append(args, *v)
	}
	cond := strings.Join(where, " AND ")

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"super_edge", "membership", "super_node"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+cond, args...); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	return tx.Commit()
}

func superNodeWhere(find *store.FindSuperNode) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.GraphID; v != nil {
		where, args = append(where, "graph_id = ?"), append(args, *v)
	}
	if v := find.RunID; v != nil {
		where, args = append(where, "run_id = ?"), append(args, *v)
	}
	if v := find.Candidate; v != nil {
		where, args = append(where, "candidate = ?"), append(args, *v)
	}
	if v := find.GroupKey; v != nil {
		where, args = append(where, "group_key = ?"), append(args, *v)
	}

	return where, args
}
