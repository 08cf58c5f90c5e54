package main

import (
	"errors"

	"github.com/spf13/cobra"

	"spotr/internal"
	"spotr/internal/di"
)

var (
	resetOpts = internal.ResetOptions{}
	resetCmd  = &cobra.Command{
		Use:   "reset",
		Short: "Wipe parts of the persisted store",
		Long:  `Wipe the profile, the uploaded media or the votes from the persisted store. The server should not be running while this command runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !resetOpts.Profile && !resetOpts.Media && !resetOpts.Votes {
				return errors.New("nothing to reset: pass --profile, --media or --votes")
			}
			m, err := di.InitMaintenance(flags)
			if err != nil {
				return err
			}
			return m.Reset(cmd.Context(), resetOpts)
		},
	}
)

func init() {
	resetCmd.Flags().BoolVar(&resetOpts.Profile, "profile", false, "delete the profile; a new one is created on next start")
	resetCmd.Flags().BoolVar(&resetOpts.Media, "media", false, "delete every uploaded media item")
	resetCmd.Flags().BoolVar(&resetOpts.Votes, "votes", false, "delete all votes")
}
