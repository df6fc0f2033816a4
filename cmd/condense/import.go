package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lyon1/condense/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create a graph from a whitespace edge-list file",
	Long: `Create a graph from a whitespace edge-list file.

Each line is either an edge "src dst" (a third weight column is
tolerated and ignored), an isolated node declaration "node <name>", or
a comment starting with '#'. Node names are mapped to dense ids in
order of first appearance.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		instanceProfile, err := loadProfile()
		if err != nil {
			return err
		}
		storeInstance, err := newStore(ctx, instanceProfile)
		if err != nil {
			return err
		}
		defer storeInstance.Close()

		graphName, _ := cmd.Flags().GetString("graph")
		fileName, _ := cmd.Flags().GetString("file")

		existing, err := storeInstance.GetGraph(ctx, &store.FindGraph{Name: &graphName})
		if err != nil {
			return errors.Wrap(err, "failed to find graph")
		}
		if existing != nil {
			return errors.Errorf("graph %q already exists", graphName)
		}

		file, err := os.Open(fileName)
		if err != nil {
			return errors.Wrap(err, "failed to open edge list")
		}
		defer file.Close()

		nodes, edges, err := parseEdgeList(file)
		if err != nil {
			return err
		}

		graph, err := storeInstance.CreateGraph(ctx, &store.Graph{
			UID:  shortuuid.New(),
			Name: graphName,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create graph")
		}
		if err := storeInstance.UpsertNodes(ctx, graph.ID, nodes); err != nil {
			return errors.Wrap(err, "failed to import nodes")
		}
		if err := storeInstance.CreateEdges(ctx, graph.ID, edges); err != nil {
			return errors.Wrap(err, "failed to import edges")
		}

		fmt.Printf("imported graph %q: %d nodes, %d edges\n", graphName, len(nodes), len(edges))
		return nil
	},
}

func init() {
	importCmd.Flags().String("graph", "", "name of the graph to create")
	importCmd.Flags().String("file", "", "path to the edge-list file")
	for _, flag := range []string{"graph", "file"} {
		if err := importCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
}

// parseEdgeList reads a whitespace edge list. Node names are assigned
// dense ids starting at 1 in order of first appearance and kept as the
// node name.
func parseEdgeList(r io.Reader) ([]*store.Node, []*store.Edge, error) {
	ids := make(map[string]int64)
	nodes := make([]*store.Node, 0)
	edges := make([]*store.Edge, 0)

	intern := func(token string) int64 {
		if id, ok := ids[token]; ok {
			return id
		}
		id := int64(len(ids) + 1)
		ids[token] = id
		nodes = append(nodes, &store.Node{ID: id, Name: token})
		return id
	}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if fields[0] == "node" {
			if len(fields) != 2 {
				return nil, nil, errors.Errorf("line %d: expected 'node <name>'", lineNumber)
			}
			intern(fields[1])
			continue
		}
		if len(fields) != 2 && len(fields) != 3 {
			return nil, nil, errors.Errorf("line %d: expected 'src dst [weight]' or 'node <name>'", lineNumber)
		}
		source := intern(fields[0])
		target := intern(fields[1])
		edges = append(edges, &store.Edge{SourceID: source, TargetID: target})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read edge list")
	}

	return nodes, edges, nil
}
