package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the enabled networks and their widgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, reg, err := newRenderer(cfg)
		if err != nil {
			return err
		}

		byNetwork := make(map[string][]string)
		for _, w := range reg.Widgets() {
			byNetwork[w.Network.Name] = append(byNetwork[w.Network.Name], w.Name)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NETWORK\tSCRIPT\tWIDGETS")
		for _, n := range reg.Networks() {
			src := ""
			if n.Script != nil {
				src = n.Script.Src
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", n.Name, src, strings.Join(byNetwork[n.Name], ", "))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(networksCmd)
}
