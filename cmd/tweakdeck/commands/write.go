package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set <tweak> <value>: send one value and wait for the engine to take it.
func setCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <tweak> <value>",
		Short: "Send one tweak value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.connect(cmd)
			if err != nil {
				return err
			}
			if err := s.deck.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := s.finish(); err != nil {
				return err
			}
			return printValue(cmd, s, args[0])
		},
	}
}

// nudge <tweak>: step a range or cycle a select.
func nudgeCmd(a *app) *cobra.Command {
	var by int
	cmd := &cobra.Command{
		Use:   "nudge <tweak>",
		Short: "Step a range or cycle a select",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.connect(cmd)
			if err != nil {
				return err
			}
			// Start from the engine's value, not the markup default.
			if _, err := s.deck.Reconcile(cmd.Context()); err != nil {
				return err
			}
			if err := s.deck.Nudge(args[0], by); err != nil {
				return err
			}
			if err := s.finish(); err != nil {
				return err
			}
			return printValue(cmd, s, args[0])
		},
	}
	cmd.Flags().IntVar(&by, "by", 1, "steps to move; negative moves down")
	return cmd
}

// press <action>: fire an action once.
func pressCmd(a *app) *cobra.Command {
	var times int
	cmd := &cobra.Command{
		Use:   "press <action>",
		Short: "Fire an action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.connect(cmd)
			if err != nil {
				return err
			}
			for range times {
				if err := s.deck.Press(args[0]); err != nil {
					return err
				}
			}
			if err := s.finish(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pressed %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().IntVarP(&times, "times", "n", 1, "number of presses")
	return cmd
}

func printValue(cmd *cobra.Command, s *session, name string) error {
	c, ok := s.deck.Schema().Lookup(name)
	if !ok {
		return fmt.Errorf("%s is no longer displayed", name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", name, c.Value)
	return nil
}
