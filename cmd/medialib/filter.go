package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/query"
	"github.com/alfredjeanlab/medialib/internal/ui"
)

// The filter subcommands run locally and never contact a server.
var filterCmd = &cobra.Command{
	Use:     "filter",
	Short:   "Inspect, convert and compile filter payloads",
	Long:    filterHelp(),
	GroupID: "filters",
}

var filterDescribeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Render filters as a one-line summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readFilterArg(cmd, args)
		if err != nil {
			return err
		}

		s, err := summarizerFor(cmd, currentRemote())
		if err != nil {
			return err
		}

		summary := s.Describe(model.Sanitize(raw))
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{"summary": summary})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSummary(summary))
		return nil
	},
}

// summarizerFor builds the date rendering for describe. Flags win; otherwise
// the remote's tz and date_layout apply.
func summarizerFor(cmd *cobra.Command, r Remote) (model.Summarizer, error) {
	layout, _ := cmd.Flags().GetString("layout")
	if !cmd.Flags().Changed("layout") && r.DateLayout != "" {
		layout = r.DateLayout
	}
	tz, _ := cmd.Flags().GetString("tz")
	if !cmd.Flags().Changed("tz") {
		tz = r.TimeZone
	}

	s := model.Summarizer{DateLayout: layout}
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return s, fmt.Errorf("unknown time zone %q", tz)
		}
		s.Location = loc
	}
	return s, nil
}

var filterSanitizeCmd = &cobra.Command{
	Use:   "sanitize [file]",
	Short: "Convert any stored filter value to the current format",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readFilterArg(cmd, args)
		if err != nil {
			return err
		}
		if model.IsLegacy(raw) {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderMuted("migrated legacy filter"))
		}
		return printJSON(cmd.OutOrStdout(), model.Sanitize(raw))
	},
}

var filterMergeCmd = &cobra.Command{
	Use:   "merge [file]",
	Short: "Collapse groups into one include and one exclude group",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readFilterArg(cmd, args)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), model.MergeGroups(model.Sanitize(raw)))
	},
}

// compiledParam is one bound parameter as shown by filter compile.
type compiledParam struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Value       any    `json:"value"`
}

var filterCompileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Show the SQL WHERE clause for filters",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readFilterArg(cmd, args)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("dialect")
		d, err := query.DialectByName(name)
		if err != nil {
			return err
		}

		stmt := query.NewStatement(d)
		query.Compile(model.Sanitize(raw), stmt, d)

		params := make([]compiledParam, len(stmt.Args()))
		for i, arg := range stmt.Args() {
			name := stmt.ParamNames()[i]
			if na, ok := arg.(sql.NamedArg); ok {
				arg = na.Value
			}
			params[i] = compiledParam{Name: name, Placeholder: d.Placeholder(name, i+1), Value: arg}
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"dialect": d.Name(),
				"where":   stmt.WhereSQL(),
				"params":  params,
			})
		}
		printCompiled(cmd.OutOrStdout(), stmt.WhereSQL(), params)
		return nil
	},
}

func printCompiled(out io.Writer, where string, params []compiledParam) {
	if where == "" {
		fmt.Fprintln(out, ui.RenderMuted("(no conditions)"))
		return
	}
	fmt.Fprintln(out, where[1:])
	if len(params) == 0 {
		return
	}
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLACEHOLDER\tVALUE")
	for _, p := range params {
		fmt.Fprintf(w, "%s\t%v\n", p.Placeholder, p.Value)
	}
	w.Flush()
}

var filterValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check filters the way the server does before storing them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readFilterArg(cmd, args)
		if err != nil {
			return err
		}

		f, err := model.ParseFilters(raw)
		if err == nil {
			err = model.ValidateFilters(f)
		}
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderInclude("valid"))
			return nil
		}

		var ve *model.ValidationError
		if errors.As(err, &ve) {
			for _, fe := range ve.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.RenderExclude(fe.Field+":"), fe.Message)
			}
			return fmt.Errorf("%d validation error(s)", len(ve.Errors))
		}
		return err
	},
}

func init() {
	filterDescribeCmd.Flags().String("layout", model.DefaultDateLayout, "Go time layout for dates")
	filterDescribeCmd.Flags().String("tz", "", "IANA time zone for dates (default UTC)")
	filterCompileCmd.Flags().String("dialect", query.Postgres.Name(), "SQL dialect (postgres or sqlite)")

	filterCmd.AddCommand(filterDescribeCmd)
	filterCmd.AddCommand(filterSanitizeCmd)
	filterCmd.AddCommand(filterMergeCmd)
	filterCmd.AddCommand(filterCompileCmd)
	filterCmd.AddCommand(filterValidateCmd)
}
