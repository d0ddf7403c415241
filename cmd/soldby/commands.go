package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/soldbyofficial/backend/config"
	"github.com/soldbyofficial/backend/internal/domain"
	"github.com/soldbyofficial/backend/internal/logging"
	"github.com/soldbyofficial/backend/internal/server"
)

type rewriteOutput struct {
	Input   string `json:"input"`
	URL     string `json:"url,omitempty"`
	Matched bool   `json:"matched"`
	Enabled *bool  `json:"enabled,omitempty"`
}

type siteOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Param   string `json:"param"`
	Policy  string `json:"policy"`
	Enabled bool   `json:"enabled"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRewrite prints the rewritten URL alone so it can be piped, or a
// warning on stderr when there is nothing to rewrite.
func (s *cliState) printRewrite(cmd *cobra.Command, out rewriteOutput) error {
	if s.output == "json" {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	if !out.Matched {
		_, err := fmt.Fprint(cmd.ErrOrStderr(), pterm.Warning.Sprintln("no rewrite for "+out.Input))
		return err
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), out.URL)
	return err
}

func newActivateCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <url>",
		Short: "Print the URL with the official seller filter applied",
		Args:  cobra.ExactArgs(1),
		RunE: state.withEngine(func(cmd *cobra.Command, args []string) error {
			out, ok, err := state.rewrite.ActivationURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return state.printRewrite(cmd, rewriteOutput{Input: args[0], URL: out, Matched: ok})
		}),
	}
}

func newDeactivateCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <url>",
		Short: "Print the URL with the official seller filter removed",
		Args:  cobra.ExactArgs(1),
		RunE: state.withEngine(func(cmd *cobra.Command, args []string) error {
			out, ok := state.rewrite.DeactivationURL(cmd.Context(), args[0])
			return state.printRewrite(cmd, rewriteOutput{Input: args[0], URL: out, Matched: ok})
		}),
	}
}

func newToggleCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <url>",
		Short: "Flip the site of <url> on or off and print the resulting URL",
		Args:  cobra.ExactArgs(1),
		RunE: state.withEngine(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, ok, err := state.rewrite.ToggleURL(ctx, args[0])
			if err != nil {
				return err
			}

			result := rewriteOutput{Input: args[0], URL: out, Matched: ok}
			if site, found := state.rewrite.Match(args[0]); found {
				badge, err := state.rewrite.BadgeText(ctx, args[0])
				if err != nil {
					return err
				}
				result.Enabled = lo.ToPtr(badge == "ON")
				if state.output != "json" {
					fmt.Fprint(cmd.ErrOrStderr(), pterm.Info.Sprintfln("%s is now %s", site.ID, badge))
				}
			}
			return state.printRewrite(cmd, result)
		}),
	}
}

func newBadgeCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "badge <url>",
		Short: "Print the toolbar badge for <url> (ON, OFF or empty)",
		Args:  cobra.ExactArgs(1),
		RunE: state.withEngine(func(cmd *cobra.Command, args []string) error {
			badge, err := state.rewrite.BadgeText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if state.output == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"badge": badge})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), badge)
			return err
		}),
	}
}

func newSitesCmd(state *cliState) *cobra.Command {
	sitesCmd := &cobra.Command{
		Use:   "sites",
		Short: "List supported sites and whether each is on",
		Args:  cobra.NoArgs,
		RunE: state.withEngine(func(cmd *cobra.Command, args []string) error {
			statuses, err := state.rewrite.Sites(cmd.Context())
			if err != nil {
				return err
			}

			rows := lo.Map(statuses, func(st domain.SiteStatus, _ int) siteOutput {
				return siteOutput{
					ID:      st.Site.ID,
					Name:    st.Site.Name,
					Param:   st.Site.Param.Key + "=" + st.Site.Param.Value,
					Policy:  st.Site.Policy.String(),
					Enabled: st.Enabled,
				}
			})

			if state.output == "json" {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return renderSites(cmd.OutOrStdout(), rows)
		}),
	}

	sitesCmd.AddCommand(&cobra.Command{
		Use:   "toggle <site-id>",
		Short: "Flip a site on or off by id",
		Args:  cobra.ExactArgs(1),
		RunE: state.withEngine(func(cmd *cobra.Command, args []string) error {
			enabled, err := state.rewrite.ToggleSite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if state.output == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"id": args[0], "enabled": enabled})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], onOff(enabled))
			return err
		}),
	})

	return sitesCmd
}

func renderSites(w io.Writer, rows []siteOutput) error {
	data := pterm.TableData{{"ID", "Name", "Filter", "Merge", "State"}}
	for _, r := range rows {
		data = append(data, []string{r.ID, r.Name, r.Param, r.Policy, onOff(r.Enabled)})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

func onOff(enabled bool) string {
	if enabled {
		return "ON"
	}
	return "OFF"
}

func newServeCmd(state *cliState) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP backend used by the browser extension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.Storage.Type = "sqlite"
				cfg.Storage.Path = state.dbPath
			}

			logger := logging.FromSettings(cfg.Log.Level, cfg.Log.Format)
			srv, err := server.New(cfg, logger)
			if err != nil {
				return err
			}
			defer srv.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default searches ./config.yaml, ./config, /etc/soldby)")
	return cmd
}
