package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"rpsadmin/internal/config"
	"rpsadmin/internal/faculty"
	"rpsadmin/internal/listctl"
	"rpsadmin/internal/rest"
)

type listFlags struct {
	search string
	page   int
	limit  int
}

func newListCmd(global *globalFlags) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of faculties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			if flags.limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			s, err := setup(cmd.Context(), *global, config.StderrLogFile)
			if err != nil {
				return err
			}
			defer s.close()

			if flags.limit == 0 {
				flags.limit = s.cfg.DefaultPageSize
			}
			state, err := fetchPage(cmd.Context(), s, flags)
			if err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), state)
		},
	}
	cmd.Flags().StringVar(&flags.search, "search", "", "filter by name")
	cmd.Flags().IntVar(&flags.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "page size (default RPS_DEFAULT_PAGE_SIZE)")
	return cmd
}

// fetchPage drives a list controller to the requested page and returns
// its settled state.
func fetchPage(ctx context.Context, s *stack, flags listFlags) (listctl.State[faculty.Faculty], error) {
	sizes := s.cfg.PageSizes
	if !slices.Contains(sizes, flags.limit) {
		sizes = append(slices.Clone(sizes), flags.limit)
	}
	ctrl := s.controller(ctx, listctl.WithPageSizes(sizes, flags.limit))
	defer ctrl.Close()

	if flags.search != "" {
		ctrl.SetSearchText(flags.search)
		ctrl.FlushSearch()
	}
	ctrl.Start()
	ctrl.Wait()

	if flags.page > 1 {
		st := ctrl.State()
		if st.Phase == listctl.PhaseErrored {
			return st, st.Err
		}
		if !ctrl.SetPage(flags.page) {
			return st, fmt.Errorf("page %d out of range (%d pages)", flags.page, max(st.PageCount, 1))
		}
		ctrl.Wait()
	}

	st := ctrl.State()
	if st.Phase == listctl.PhaseErrored {
		return st, fmt.Errorf("%s: %w", rest.UserMessage(st.Err), st.Err)
	}
	return st, nil
}

func printPage(w io.Writer, st listctl.State[faculty.Faculty]) error {
	if st.Phase == listctl.PhaseEmpty {
		msg := "No faculties."
		if st.Query.Search != "" {
			msg = fmt.Sprintf("No faculties match %q.", st.Query.Search)
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "DESCRIPTION", "DEPARTMENTS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, f := range st.Items {
		t.Row(f.ID.String(), f.Name, f.Description, f.DepartmentNames())
	}

	first := (st.Query.Page-1)*st.Query.Limit + 1
	last := first + len(st.Items) - 1
	summary := fmt.Sprintf("page %d of %d, showing %d-%d of %d", st.Query.Page, max(st.PageCount, 1), first, last, st.Total)
	_, err := fmt.Fprintln(w, strings.Join([]string{t.Render(), summary}, "\n"))
	return err
}
