package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var bootstrapOutput string

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Dump the raw bootstrap document",
	Long:  `Writes the NVR's bootstrap JSON exactly as received, to stdout or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := setupSession().BootstrapJSON()
		if err != nil {
			exitOnError("fetching bootstrap", err)
		}

		if bootstrapOutput == "" {
			_, _ = os.Stdout.Write(data)
			fmt.Println()
			return
		}

		if err := os.WriteFile(bootstrapOutput, data, 0644); err != nil {
			fmt.Printf("Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Bootstrap saved to %s\n", bootstrapOutput)
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
	bootstrapCmd.Flags().StringVar(&bootstrapOutput, "output", "", "Write to this file instead of stdout")
}
