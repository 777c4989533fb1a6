package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/folio-labs/portfolio-backend/pkg/client"
	"github.com/folio-labs/portfolio-backend/pkg/orderlist"
)

func newProjectsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and reorder projects",
	}
	cmd.AddCommand(newProjectsListCmd(o), newProjectsReorderCmd(o))
	return cmd
}

func newProjectsListCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show projects in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := o.client().ListProjects(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printProjects(cmd.OutOrStdout(), client.Items(projects))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many")
	return cmd
}

func newProjectsReorderCmd(o *options) *cobra.Command {
	var moves []string
	var dryRun bool
	cmd := &cobra.Command{
		Use:     "reorder",
		Short:   "Move projects by index and save the new order",
		Example: "  portfolioctl projects reorder --move 2:0 --move 3:1",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([][2]int, 0, len(moves))
			for _, m := range moves {
				mv, err := parseMove(m)
				if err != nil {
					return err
				}
				parsed = append(parsed, mv)
			}
			return reorder(cmd.Context(), o.client(), parsed, dryRun, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringArrayVar(&moves, "move", nil, "from:to zero-based indices, applied in order")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the resulting order without saving")
	_ = cmd.MarkFlagRequired("move")
	return cmd
}

type projectAPI interface {
	orderlist.Saver
	ListProjects(ctx context.Context, limit int) ([]client.Project, error)
}

func reorder(ctx context.Context, api projectAPI, moves [][2]int, dryRun bool, out io.Writer) error {
	projects, err := api.ListProjects(ctx, 0)
	if err != nil {
		return err
	}

	list := orderlist.New(client.Items(projects), api)
	for _, mv := range moves {
		if err := list.Move(mv[0], mv[1]); err != nil {
			return err
		}
	}

	printProjects(out, list.Current().Items())
	if !list.Dirty() {
		fmt.Fprintln(out, "order unchanged")
		return nil
	}
	if dryRun {
		fmt.Fprintln(out, "dry run, not saved")
		return nil
	}
	if err := list.Save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "saved order of %d projects\n", list.Current().Len())
	return nil
}

func parseMove(s string) ([2]int, error) {
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return [2]int{}, fmt.Errorf("move %q: want from:to", s)
	}
	src, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return [2]int{}, fmt.Errorf("move %q: %w", s, err)
	}
	dst, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return [2]int{}, fmt.Errorf("move %q: %w", s, err)
	}
	return [2]int{src, dst}, nil
}

func printProjects(out io.Writer, items []orderlist.Item) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tSLUG\tTITLE")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, it.ID, it.Slug, it.Title)
	}
	_ = tw.Flush()
}
