package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// modules: list the catalog and mark what the engine runs.
func modulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the module catalog and mark the active module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.connect(cmd)
			if err != nil {
				return err
			}
			printModules(cmd.OutOrStdout(), s.deck.Selector())
			return nil
		},
	}
}

// load <module>: activate a module and show its tweaks.
func loadCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "load <module>",
		Short: "Activate a module and print its tweaks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			s := &session{}
			s.deck = a.newDeck(cmd.Context(), s.record)

			load := s.deck.Choose
			if force {
				load = s.deck.Load
			}
			bs, err := load(cmd.Context(), name)
			if err != nil {
				return err
			}
			shown := s.deck.Schema()
			printTweaks(cmd.OutOrStdout(), shown, bs)
			if shown.Module != name {
				return fmt.Errorf("engine did not activate %s; %s is running", name, shown.Module)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "load even if the module is not in the catalog")
	return cmd
}

// tweaks: print the active module's tweaks with the engine's values.
func tweaksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "tweaks",
		Aliases: []string{"snapshot"},
		Short:   "Print the active module's tweaks with engine values",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.connect(cmd)
			if err != nil {
				return err
			}
			if _, err := s.deck.Reconcile(cmd.Context()); err != nil {
				return err
			}
			printTweaks(cmd.OutOrStdout(), s.deck.Schema(), s.deck.Bindings())
			return nil
		},
	}
}

// reload: ask the engine to reload its state.
func reloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the engine to reload its state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.connect(cmd)
			if err != nil {
				return err
			}
			applied, err := s.deck.Reload(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reloaded %s: %d values\n", s.deck.Schema().Module, len(applied))
			return nil
		},
	}
}
