package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"unifi-protect-cli/internal/protect"
	"unifi-protect-cli/pkg/models"
)

// Variables to hold flag values
var (
	cameraID    string
	cameraName  string
	matchExprs  []string
	filterName  string
	filterValue bool
	outputFile  string
	exportStart string
	exportEnd   string
	exportLast  time.Duration
)

// Parent Command
var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "Manage cameras",
	Long:  `List and filter cameras, take snapshots, or export video clips.`,
}

// List Command
var camerasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cameras",
	Example: `  unifi-protect-cli cameras list --filter recording
  unifi-protect-cli cameras list --filter connected --value=false
  unifi-protect-cli cameras list --match 'name=/barn/i' --match 'name=Front Door'
  unifi-protect-cli cameras list --match featureFlags.hasSpeaker=true`,
	Run: func(cmd *cobra.Command, args []string) {
		cams, err := setupClient().Cameras()
		if err != nil {
			exitOnError("fetching cameras", err)
		}

		cams, err = selectCameras(cams)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		summaries := protect.MapCameras(cams, func(c *protect.Camera) models.CameraSummary {
			return models.SummarizeCamera(c.Record())
		})

		// --- JSON OUTPUT ---
		if jsonOutput {
			printJSON(summaries)
			return
		}
		// -------------------

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATE\tRECORDING\tHOST")
		fmt.Fprintln(w, "--\t----\t----\t-----\t---------\t----")

		for _, cam := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
				cam.ID,
				cam.Name,
				cam.Type,
				cam.State,
				cam.Recording,
				cam.Host,
			)
		}
		w.Flush()
	},
}

// Snapshot Command
var camerasSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Download a JPEG snapshot from a camera",
	Example: `  unifi-protect-cli cameras snapshot --name "Front Door"
  unifi-protect-cli cameras snapshot --id 5e0bd0b80000000000000001 --output door.jpg`,
	Run: func(cmd *cobra.Command, args []string) {
		cam := findCamera()

		fmt.Printf("Requesting snapshot from %s ...\n", cam.Name())

		df, err := cam.Snapshot(outputFile)
		if err != nil {
			exitOnError("getting snapshot", err)
		}

		if jsonOutput {
			printJSON(df)
			return
		}
		fmt.Printf("Snapshot saved to %s (%d bytes)\n", df.Path, df.Size)
	},
}

// Export Command
var camerasExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded video from a camera as MP4",
	Example: `  unifi-protect-cli cameras export --name Driveway --last 10m
  unifi-protect-cli cameras export --name Driveway --start 2024-05-01T08:00:00Z --end 2024-05-01T08:05:00Z`,
	Run: func(cmd *cobra.Command, args []string) {
		start, end, err := exportRange(time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		cam := findCamera()
		fmt.Printf("Exporting %s from %s to %s ...\n", cam.Name(), start.Format(time.RFC3339), end.Format(time.RFC3339))

		df, err := cam.VideoExport(start, end, outputFile)
		if err != nil {
			exitOnError("exporting video", err)
		}

		if jsonOutput {
			printJSON(df)
			return
		}
		fmt.Printf("Video saved to %s (%d bytes)\n", df.Path, df.Size)
	},
}

// selectCameras applies --filter and then --match.
func selectCameras(cams *protect.CameraCollection) (*protect.CameraCollection, error) {
	var err error
	if filterName != "" {
		if cams, err = cams.Filter(filterName, filterValue); err != nil {
			return nil, err
		}
	}
	if len(matchExprs) > 0 {
		attrs, err := protect.ParseAttrs(matchExprs)
		if err != nil {
			return nil, err
		}
		if cams, err = cams.Match(attrs); err != nil {
			return nil, err
		}
	}
	return cams, nil
}

// cameraAttrs builds the lookup for --id, --name and --match.
func cameraAttrs() (protect.Attrs, error) {
	attrs, err := protect.ParseAttrs(matchExprs)
	if err != nil {
		return nil, err
	}
	if cameraID != "" {
		attrs["id"] = protect.Exact(cameraID)
	}
	if cameraName != "" {
		attrs["name"] = protect.Exact(cameraName)
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("specify a camera with --id, --name or --match")
	}
	return attrs, nil
}

func findCamera() *protect.Camera {
	attrs, err := cameraAttrs()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cams, err := setupClient().Cameras()
	if err != nil {
		exitOnError("fetching cameras", err)
	}

	cam, ok, err := cams.Fetch(attrs)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Println("Error: No camera matched.")
		os.Exit(1)
	}
	return cam
}

// exportRange resolves --start/--end or --last relative to now.
func exportRange(now time.Time) (time.Time, time.Time, error) {
	if exportLast > 0 {
		if exportStart != "" || exportEnd != "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--last cannot be combined with --start or --end")
		}
		return now.Add(-exportLast), now, nil
	}

	if exportStart == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("specify --last or --start")
	}
	start, err := time.Parse(time.RFC3339, exportStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
	}

	end := now
	if exportEnd != "" {
		if end, err = time.Parse(time.RFC3339, exportEnd); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--end must be after --start")
	}
	return start, end, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Printf("Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Register Parent
	rootCmd.AddCommand(camerasCmd)

	// Register Subcommands
	camerasCmd.AddCommand(camerasListCmd)
	camerasCmd.AddCommand(camerasSnapshotCmd)
	camerasCmd.AddCommand(camerasExportCmd)

	// Flags for List
	camerasListCmd.Flags().StringVar(&filterName, "filter", "", "State filter: "+strings.Join(protect.FilterNames(), ", "))
	camerasListCmd.Flags().BoolVar(&filterValue, "value", true, "Value the --filter state must have")
	camerasListCmd.Flags().StringArrayVar(&matchExprs, "match", nil, "field=value, field=/regexp/i or field.sub=value (repeatable, any may match)")

	// Flags for Snapshot and Export
	for _, c := range []*cobra.Command{camerasSnapshotCmd, camerasExportCmd} {
		c.Flags().StringVar(&cameraID, "id", "", "ID of the camera")
		c.Flags().StringVar(&cameraName, "name", "", "Exact name of the camera")
		c.Flags().StringArrayVar(&matchExprs, "match", nil, "Select the first camera matching field=value")
		c.Flags().StringVar(&outputFile, "output", "", "Output filename (default is generated from camera ID and time)")
	}

	// Flags for Export
	camerasExportCmd.Flags().StringVar(&exportStart, "start", "", "Start time (RFC3339)")
	camerasExportCmd.Flags().StringVar(&exportEnd, "end", "", "End time (RFC3339, default now)")
	camerasExportCmd.Flags().DurationVar(&exportLast, "last", 0, "Export the most recent duration instead of --start/--end (e.g. 10m)")
}
