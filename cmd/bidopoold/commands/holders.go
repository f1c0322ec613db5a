package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bidolabs/bidopool-go/config"
	"github.com/bidolabs/bidopool-go/identity"
	"github.com/bidolabs/bidopool-go/pool"
	"github.com/bidolabs/bidopool-go/store"
)

var holdersCmd = &cobra.Command{
	Use:   "holders",
	Short: "Show the share register",
	Long: `Print the current share register from the local state database:
each holder's shares, its redeemable value at the current share price, and
the pool totals. Reads the last persisted snapshot, so against a live
daemon's data directory it reflects the last completed operation.`,
	RunE: runHolders,
}

func init() {
	rootCmd.AddCommand(holdersCmd)
}

func runHolders(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.Open(filepath.Join(cfg.DataDir, "pool.db"))
	if err != nil {
		return err
	}
	defer st.Close()

	snap, found, err := st.LoadSnapshot()
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("no pool state persisted yet")
		return nil
	}

	ledger := pool.New()
	if err := ledger.Restore(snap.Holders, snap.TotalShares, snap.TotalPooled); err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Printf("%s  shares=%d  pooled=%d  staking_paused=%v  transfers_stopped=%v\n\n",
		bold("pool"), snap.TotalShares, snap.TotalPooled, snap.StakingPaused, snap.TransfersStopped)

	table := tablewriter.NewTable(os.Stdout)
	table.Header("HOLDER", "SHARES", "VALUE")
	for _, e := range snap.Holders {
		name := e.Holder.String()
		if e.Holder == identity.Dead {
			name = dim(name + " (dead)")
		}
		value, err := ledger.SharesToValue(e.Shares)
		if err != nil {
			value = 0
		}
		if err := table.Append(name, fmt.Sprintf("%d", e.Shares), fmt.Sprintf("%d", value)); err != nil {
			return err
		}
	}
	return table.Render()
}
