package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRecomputeCommand(configFile *string) *cobra.Command {
	var accountIDs []int64

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute stored account balances from completed transactions",
		Long: `Recompute rebuilds the stored balance of each given account from its
completed transaction lines. Without --account every account is recomputed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configFile)
			if err != nil {
				return err
			}
			defer a.close()

			results, err := a.service.Balance.Recompute(cmd.Context(), accountIDs)
			if err != nil {
				a.logger.WithError(err).Error("Recompute.failed")
				return err
			}

			for _, r := range results {
				a.logger.WithFields(logrus.Fields{
					"accountID": r.AccountID,
					"balance":   r.Balance.StringFixed(2),
					"found":     r.Found,
				}).Info("Recompute.account")
				if r.Found {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", r.AccountID, r.Balance.StringFixed(2))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\tnot found\n", r.AccountID)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int64SliceVarP(&accountIDs, "account", "a", nil, "account ID to recompute, repeatable")

	return cmd
}
