package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/socialite/internal/activity"
)

var activityCmd = &cobra.Command{
	Use:   "activity [render-id]",
	Short: "Show recorded renders, or the events of one render",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openActivityDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		store := activity.NewStore(database)
		ctx := context.Background()
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		if len(args) == 1 {
			r, err := store.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s  mode=%s  instances=%d\n\n", r.ID, r.Page, r.Mode, r.Instances)
			fmt.Fprintln(tw, "SEQ\tKIND\tNETWORK\tWIDGET\tUID")
			for _, e := range r.Events {
				uid := ""
				if e.InstanceUID != nil {
					uid = fmt.Sprint(*e.InstanceUID)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.Seq, e.Kind, e.Network, e.Widget, uid)
			}
			return tw.Flush()
		}

		page, _ := cmd.Flags().GetString("page")
		limit, _ := cmd.Flags().GetInt("limit")
		renders, err := store.List(ctx, activity.RenderFilter{Page: page, Limit: limit})
		if err != nil {
			return err
		}

		fmt.Fprintln(tw, "ID\tPAGE\tMODE\tINSTANCES\tNETWORKS\tRENDERED")
		for _, r := range renders {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
				r.ID, r.Page, r.Mode, r.Instances, strings.Join(r.Networks, ","), r.RenderedAt.Format(time.DateTime))
		}
		return tw.Flush()
	},
}

func init() {
	activityCmd.Flags().String("page", "", "only renders of this page")
	activityCmd.Flags().Int("limit", 20, "max renders to list")
	rootCmd.AddCommand(activityCmd)
}
