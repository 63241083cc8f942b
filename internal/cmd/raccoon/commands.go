package raccooncmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rzbill/raccoon/internal/audit"
	"github.com/rzbill/raccoon/internal/runtime"
	"github.com/spf13/cobra"
)

const noRecordsMessage = "No archive records to display."

// newSaveCommand constructs the `save` subcommand.
func newSaveCommand(opts Options) *cobra.Command {
	saveCmd := &cobra.Command{
		Use:   "save DOC",
		Short: "Open, save and close a document, recording the save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			geometryOnly, _ := cmd.Flags().GetBool("geometry-only")
			selectedOnly, _ := cmd.Flags().GetBool("selected-only")
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime.Runtime) error {
				s, err := rt.Host().Open(ctx, args[0], audit.ReadOptions{})
				if err != nil {
					return err
				}
				wo := audit.WriteOptions{GeometryOnly: geometryOnly, SelectedObjectsOnly: selectedOnly}
				if err := s.Save(ctx, wo); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d records)\n", args[0], s.Table().Len())
				return s.Close()
			})
		},
	}
	saveCmd.Flags().Bool("geometry-only", false, "Save geometry only (audit trail not written)")
	saveCmd.Flags().Bool("selected-only", false, "Save selected objects only (audit trail not written)")
	return saveCmd
}

// newListCommand constructs the `list` subcommand.
func newListCommand(opts Options) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list DOC",
		Short: "Show a document's save records, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive, _ := cmd.Flags().GetBool("interactive")
			expr, _ := cmd.Flags().GetString("filter")
			filter, err := audit.NewFilter(expr)
			if err != nil {
				return fmt.Errorf("invalid --filter: %w", err)
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime.Runtime) error {
				s, err := rt.Host().Open(ctx, args[0], audit.ReadOptions{})
				if err != nil {
					return err
				}
				lines := s.Table().DisplayLinesMatching(filter)
				out := cmd.OutOrStdout()
				switch {
				case len(lines) == 0:
					_, _ = fmt.Fprintln(out, noRecordsMessage)
				case interactive:
					_, _ = fmt.Fprint(out, renderDialog("Raccoon", lines))
				default:
					for _, l := range lines {
						_, _ = fmt.Fprintln(out, l)
					}
				}
				return s.Close()
			})
		},
	}
	listCmd.Flags().BoolP("interactive", "i", false, "Show records as a single text block")
	listCmd.Flags().String("filter", "", `CEL filter over machine, user, timestamp, index, unix_ms (e.g. 'user.endsWith("alice")')`)
	return listCmd
}

// renderDialog formats lines as one titled, newline-joined block.
func renderDialog(title string, lines []string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", len(title)))
	b.WriteByte('\n')
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// newImportCommand constructs the `import` subcommand.
func newImportCommand(opts Options) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import DOC",
		Short: "Import another document into DOC; its save records are not merged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			reference, _ := cmd.Flags().GetBool("reference")
			save, _ := cmd.Flags().GetBool("save")
			if from == "" {
				return fmt.Errorf("--from is required")
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime.Runtime) error {
				s, err := rt.Host().Open(ctx, args[0], audit.ReadOptions{})
				if err != nil {
					return err
				}
				if err := s.Import(ctx, from, reference); err != nil {
					return err
				}
				if save {
					if err := s.Save(ctx, audit.WriteOptions{}); err != nil {
						return err
					}
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %s into %s (%d records)\n", from, args[0], s.Table().Len())
				return s.Close()
			})
		},
	}
	importCmd.Flags().String("from", "", "Document to import")
	importCmd.Flags().Bool("reference", false, "Link as a reference instead of importing")
	importCmd.Flags().Bool("save", false, "Save DOC after importing")
	return importCmd
}

// newRevisionsCommand constructs the `revisions` subcommand.
func newRevisionsCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "revisions DOC",
		Short: "List stored revisions of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(_ context.Context, rt *runtime.Runtime) error {
				revs, err := rt.Store().Revisions(args[0])
				if err != nil {
					return err
				}
				type item struct {
					ID      string   `json:"id"`
					SavedAt string   `json:"saved_at"`
					Plugins []string `json:"plugins"`
					Bytes   int      `json:"bytes"`
				}
				var out struct {
					Document  string `json:"document"`
					Revisions []item `json:"revisions"`
				}
				out.Document = args[0]
				out.Revisions = make([]item, 0, len(revs))
				for _, r := range revs {
					plugins := r.Plugins
					if plugins == nil {
						plugins = []string{}
					}
					out.Revisions = append(out.Revisions, item{
						ID:      r.ID.String(),
						SavedAt: r.ID.Time().UTC().Format(time.RFC3339),
						Plugins: plugins,
						Bytes:   r.Bytes,
					})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
}

// newDoctorCommand constructs the `doctor` subcommand.
func newDoctorCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the configuration is valid and the store opens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime.Runtime) error {
				if err := rt.CheckHealth(ctx); err != nil {
					return fmt.Errorf("store unhealthy: %w", err)
				}
				cfg := rt.Config()
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "data dir: %s\n", cfg.ResolvedDataDir())
				_, _ = fmt.Fprintf(out, "plugin:   %s\n", cfg.PluginID)
				_, _ = fmt.Fprintf(out, "policy:   %s\n", cfg.LoadPolicy)
				_, _ = fmt.Fprintln(out, "ok")
				return nil
			})
		},
	}
}
