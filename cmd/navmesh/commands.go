package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"movement_mesh/pkg/level"
	"movement_mesh/pkg/mesh"
	"movement_mesh/pkg/snap"
)

// errLintFailed is returned by lint when at least one level has problems.
var errLintFailed = errors.New("lint found problems")

type options struct {
	levelsDir string
	levelID   int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "navmesh",
		Short:         "Inspect and compile level movement graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.levelsDir, "levels-dir", "", "directory of *.yaml level descriptions overlaid on the built-in levels")

	root.AddCommand(
		newDumpCmd(opts),
		newLintCmd(opts),
		newCompileCmd(opts),
		newInspectCmd(),
		newEdgeCmd(opts),
		newNearestCmd(opts),
	)
	return root
}

func addLevelFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().IntVarP(&opts.levelID, "level", "l", 0, "level id")
}

func newDumpCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a level graph as a world-unit level description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := level.LoadCatalog(opts.levelsDir)
			if err != nil {
				return err
			}
			name := ""
			if d, ok := catalog.Get(opts.levelID); ok {
				name = d.Name
			}
			d := level.Describe(opts.levelID, name, catalog.Mesh(opts.levelID))
			return writeDescription(cmd.OutOrStdout(), d, format)
		},
	}
	addLevelFlag(cmd, opts)
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}

func writeDescription(w io.Writer, d *level.Description, format string) error {
	switch format {
	case "yaml":
		data, err := d.Marshal()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func newLintCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Check every level for dangling edges, self loops, and disconnected vertices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := level.LoadCatalog(opts.levelsDir)
			if err != nil {
				return err
			}
			if !lint(cmd.OutOrStdout(), catalog) {
				return errLintFailed
			}
			return nil
		},
	}
}

// lint reports problems per level and returns true when every level is clean.
func lint(w io.Writer, catalog *level.Catalog) bool {
	clean := true
	for _, id := range catalog.IDs() {
		g := catalog.Mesh(id)
		var problems []string

		if err := g.Validate(); err != nil {
			var joined interface{ Unwrap() []error }
			if errors.As(err, &joined) {
				for _, e := range joined.Unwrap() {
					problems = append(problems, e.Error())
				}
			} else {
				problems = append(problems, err.Error())
			}
		}
		if groups := g.Components(); len(groups) > 1 {
			for _, group := range groups[1:] {
				problems = append(problems, fmt.Sprintf("vertices %v are unreachable from the largest group", group))
			}
		}

		if len(problems) == 0 {
			fmt.Fprintf(w, "level %d: ok (%d vertices, %d links)\n", id, g.VertexCount(), len(g.Links()))
			continue
		}
		clean = false
		fmt.Fprintf(w, "level %d: %d problem(s)\n", id, len(problems))
		for _, p := range problems {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	return clean
}

func newCompileCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Write a level graph to a binary mesh file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := level.LoadCatalog(opts.levelsDir)
			if err != nil {
				return err
			}
			if _, ok := catalog.Get(opts.levelID); !ok {
				return fmt.Errorf("unknown level %d", opts.levelID)
			}
			g := catalog.Mesh(opts.levelID)
			if err := mesh.WriteBinary(output, g); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote level %d to %s (%d vertices, %d links)\n",
				opts.levelID, output, g.VertexCount(), len(g.Links()))
			return nil
		},
	}
	addLevelFlag(cmd, opts)
	cmd.Flags().StringVarP(&output, "output", "o", "level.mesh.bin", "output file path")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the contents of a binary mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := mesh.ReadBinary(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d vertices, %d links\n", g.VertexCount(), len(g.Links()))
			for _, v := range g.Vertices() {
				fmt.Fprintf(w, "  vertex %d at (%g, %g)\n", v.ID, v.X, v.Y)
			}
			for _, l := range g.Links() {
				fmt.Fprintf(w, "  %d -> %d %s\n", l.From, l.To, l.Motion)
			}
			return nil
		},
	}
}

func newEdgeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge FROM TO",
		Short: "Print the motion that moves from one vertex to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid FROM %q", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid TO %q", args[1])
			}
			catalog, err := level.LoadCatalog(opts.levelsDir)
			if err != nil {
				return err
			}
			m, err := catalog.Mesh(opts.levelID).Edge(from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m)
			return nil
		},
	}
	addLevelFlag(cmd, opts)
	return cmd
}

func newNearestCmd(opts *options) *cobra.Command {
	var maxDist float64
	cmd := &cobra.Command{
		Use:   "nearest X Y",
		Short: "Print the vertex closest to a world position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid X %q", args[0])
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid Y %q", args[1])
			}
			catalog, err := level.LoadCatalog(opts.levelsDir)
			if err != nil {
				return err
			}
			res, err := snap.New(catalog.Mesh(opts.levelID), snap.WithMaxDist(maxDist)).Nearest(x, y)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vertex %d at (%g, %g), distance %.2f\n",
				res.Vertex.ID, res.Vertex.X, res.Vertex.Y, res.Dist)
			return nil
		},
	}
	addLevelFlag(cmd, opts)
	cmd.Flags().Float64Var(&maxDist, "max-dist", snap.DefaultMaxDist, "snapping radius in world units (0 = unlimited)")
	return cmd
}
