package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var nvrCmd = &cobra.Command{
	Use:   "nvr",
	Short: "Show NVR details",
	Run: func(cmd *cobra.Command, args []string) {
		nvr, err := setupClient().NVR()
		if err != nil {
			exitOnError("fetching NVR", err)
		}

		if jsonOutput {
			printJSON(nvr.Record())
			return
		}

		version, _ := nvr.Record().String("version")
		nvrHost, _ := nvr.Record().String("host")

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "ID\t%s\n", nvr.ID())
		fmt.Fprintf(w, "NAME\t%s\n", nvr.Name())
		fmt.Fprintf(w, "VERSION\t%s\n", version)
		fmt.Fprintf(w, "HOST\t%s\n", nvrHost)
		if up, ok, err := nvr.Time("upSince"); err == nil && ok {
			fmt.Fprintf(w, "UP SINCE\t%s (%s)\n", up.Format(time.RFC3339), time.Since(up).Truncate(time.Second))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(nvrCmd)
}
