package cli

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/modselect/internal/version"
	"github.com/arthur-debert/modselect/pkg/config"
	"github.com/arthur-debert/modselect/pkg/logging"
	"github.com/arthur-debert/modselect/pkg/manifest"
	"github.com/arthur-debert/modselect/pkg/metadata"
	"github.com/arthur-debert/modselect/pkg/selection"
)

// osFS adapts the host filesystem to io/fs for the loaders.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) { return os.Open(name) }

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "modselect",
		Short: "Conditional module activation and ordering engine",
		Long: `modselect decides which optional feature modules activate and in what
order: it merges candidate manifests, applies exclusions and conditional
filters, and emits one deterministic activation list honoring before/after
and priority hints.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newResolveCmd() *cobra.Command {
	var (
		manifests  []string
		metaPaths  []string
		excludes   []string
		configFile string
		callSite     string
		showOrigin   bool
		showExcluded bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Compute the final ordered activation list",
		Long: `Resolve loads the candidate manifests and metadata, runs the selection
pipeline for one call site, and prints the surviving modules in activation
order, one per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.NewEnvironment(configFile)
			if err != nil {
				return err
			}

			catalogue, err := manifest.Load(osFS{}, manifests...)
			if err != nil {
				return err
			}

			meta, err := metadata.LoadStore(osFS{}, metaPaths...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			var listeners []selection.Listener
			if showExcluded {
				listeners = append(listeners, selection.ListenerFunc{
					ListenerName: "cli-exclusions",
					Func: func(e selection.ImportEvent) {
						for _, x := range e.Exclusions {
							fmt.Fprintf(out, "# excluded: %s\n", x)
						}
					},
				})
			}

			sel := selection.NewSelector(selection.SelectorConfig{
				Catalogue:   catalogue,
				Environment: env,
				Metadata:    meta,
				Listeners:   listeners,
			})

			group := selection.NewGroup(meta)
			if err := group.Process(callSite, func() (selection.Entry, error) {
				return sel.Select(excludes, nil)
			}); err != nil {
				return err
			}

			activations, err := group.Finalize()
			if err != nil {
				return err
			}

			for _, a := range activations {
				if showOrigin {
					fmt.Fprintf(out, "%s\t%s\n", a.Origin, a.Module)
				} else {
					fmt.Fprintln(out, a.Module)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&manifests, "manifest", "m", nil, "Candidate manifest file (repeatable)")
	cmd.Flags().StringArrayVar(&metaPaths, "metadata", nil, "Metadata properties file (repeatable)")
	cmd.Flags().StringArrayVarP(&excludes, "exclude", "x", nil, "Module identifier to exclude (repeatable)")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to modselect.toml")
	cmd.Flags().StringVar(&callSite, "call-site", "cli", "Call site name recorded as module origin")
	cmd.Flags().BoolVar(&showOrigin, "origins", false, "Print the origin call site next to each module")
	cmd.Flags().BoolVar(&showExcluded, "show-excluded", false, "Print the exclusions that were applied as comments")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "modselect %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
