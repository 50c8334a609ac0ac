package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/blog-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/blog-service/internal/domain"
)

// ErrMissingFragments is returned by validate when catalogued entries have no
// readable fragment.
var ErrMissingFragments = errors.New("entries without fragments")

func newListCommand(opts *options) *cobra.Command {
	var (
		req        dto.EntryListRequest
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of catalog entries",
		Long: `Lists entries in catalog order, filtered by date range and tag and cut to
one zero-based page. Dates are inclusive and formatted as YYYY-MM-DD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := dto.ValidateAll(&req); err != nil {
				return invalidFlags(err)
			}

			q, err := req.ToPageQuery()
			if err != nil {
				return err
			}

			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}

			page, err := svc.ListEntries(cmd.Context(), q)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), dto.NewPaginatedResponse(page, dto.ToEntryResponse))
			}

			return writeEntryTable(cmd.OutOrStdout(), page)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&req.Page, "page", 0, "zero-based page index")
	flags.IntVar(&req.PageSize, "page-size", 0, "entries per page (default: blog.index_page_size)")
	flags.StringVar(&req.MinDate, "from", "", "earliest entry date, YYYY-MM-DD")
	flags.StringVar(&req.MaxDate, "to", "", "latest entry date, YYYY-MM-DD")
	flags.StringVar(&req.Tag, "tag", "", "only entries carrying this tag")
	flags.BoolVar(&jsonOutput, "json", false, "print the page as JSON")

	return cmd
}

func newShowCommand(opts *options) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one entry and its body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			slug := args[0]

			entry, err := svc.GetEntry(ctx, slug)
			if err != nil {
				return err
			}

			var body string
			if markdown {
				body, err = svc.EntryMarkdown(ctx, slug)
			} else {
				html, fragErr := svc.Fragment(ctx, slug)
				body, err = string(html), fragErr
			}

			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Title:  %s\n", entry.Title)
			fmt.Fprintf(w, "Author: %s\n", entry.Author)
			fmt.Fprintf(w, "Date:   %s\n", entry.Date.Format(domain.DateLayout))
			fmt.Fprintf(w, "Tags:   %s\n", strings.Join(entry.Tags, ", "))
			fmt.Fprintln(w)
			fmt.Fprintln(w, strings.TrimSpace(body))

			return nil
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the body as Markdown")

	return cmd
}

func newNavCommand(opts *options) *cobra.Command {
	var req dto.NavRequest

	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Render the navigation bar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := dto.ValidateAll(&req); err != nil {
				return invalidFlags(err)
			}

			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}

			html, err := svc.RenderNavBar(req.Page, req.LinkToSelf)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), html)

			return nil
		},
	}

	cmd.Flags().StringVar(&req.Page, "page", "", "navigation item to mark active")
	cmd.Flags().BoolVar(&req.LinkToSelf, "link-to-self", false, "keep the real link on the active item")

	return cmd
}

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog and that every entry has a fragment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			entries, tags := svc.CatalogSize()

			missing := svc.MissingFragments(cmd.Context())
			for _, slug := range slices.Sorted(maps.Keys(missing)) {
				fmt.Fprintf(w, "missing fragment %s: %v\n", slug, missing[slug])
			}

			if len(missing) > 0 {
				return fmt.Errorf("%w: %d of %d", ErrMissingFragments, len(missing), entries)
			}

			fmt.Fprintf(w, "catalog ok: %d entries, %d tags\n", entries, tags)

			return nil
		},
	}
}

func writeEntryTable(w io.Writer, page domain.Page) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSLUG\tAUTHOR\tTITLE\tTAGS")

	for _, e := range page.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Date.Format(domain.DateLayout), e.Slug, e.Author, e.Title, strings.Join(e.Tags, ","))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "page %d, %d of %d matching entries\n", page.Page, len(page.Entries), page.Total)

	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// invalidFlags turns validator failures into one readable error keyed by
// request field names.
func invalidFlags(err error) error {
	fields := dto.ValidationErrors(err)
	if len(fields) == 0 {
		return err
	}

	parts := make([]string, 0, len(fields))
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		parts = append(parts, name+": "+fields[name])
	}

	return fmt.Errorf("%w: %s", dto.ErrValidation, strings.Join(parts, "; "))
}
