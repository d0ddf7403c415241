package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/soldbyofficial/backend/internal/infrastructure/storage"
	"github.com/soldbyofficial/backend/internal/logging"
	"github.com/soldbyofficial/backend/internal/sites"
	"github.com/soldbyofficial/backend/internal/usecase"
)

// cliState is shared by every subcommand of one invocation.
type cliState struct {
	dbPath   string
	logLevel string
	output   string

	store   storage.Store
	rewrite *usecase.RewriteService
	logger  zerolog.Logger
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".soldby", "prefs.db")
	}
	return filepath.Join(home, ".soldby", "prefs.db")
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:           "soldby",
		Short:         "Filter shopping-site searches to the official seller",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&state.dbPath, "db", defaultDBPath(), "SQLite preference database")
	rootCmd.PersistentFlags().StringVar(&state.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&state.output, "output", "o", "", "Output format (json)")

	rootCmd.AddCommand(
		newActivateCmd(state),
		newDeactivateCmd(state),
		newToggleCmd(state),
		newBadgeCmd(state),
		newSitesCmd(state),
		newServeCmd(state),
	)

	return rootCmd
}

// open builds the rewrite engine over the SQLite store named by --db.
func (s *cliState) open(cmd *cobra.Command) error {
	s.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(s.logLevel),
		Format: "console",
		Output: cmd.ErrOrStderr(),
	})

	store, err := storage.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("opening preferences at %s: %w", s.dbPath, err)
	}

	s.store = store
	s.rewrite = usecase.NewRewriteService(sites.Builtin(), usecase.NewPreferenceService(store))
	cmd.SetContext(logging.WithContext(cmd.Context(), s.logger))
	return nil
}

func (s *cliState) close() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// withEngine wraps a RunE so it gets an opened engine and closes it after.
func (s *cliState) withEngine(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := s.open(cmd); err != nil {
			return err
		}
		defer s.close()
		return run(cmd, args)
	}
}
