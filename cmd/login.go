package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"unifi-protect-cli/internal/api"
	"unifi-protect-cli/internal/config"
)

// Variables to hold flag values
var (
	host     string
	port     int
	user     string
	pass     string
	insecure bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the UniFi Protect NVR",
	Long: `Authenticates with the given credentials and saves the NVR address and
bearer token locally for future commands. The password is not saved.

Example:
  unifi-protect-cli login --host 192.168.1.10 --username admin --password pass`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load().APIConfig()
		cfg.Host = host
		cfg.Port = port
		cfg.Username = user
		cfg.Password = pass
		if cmd.Flags().Changed("insecure") {
			cfg.InsecureSkipVerify = insecure
		}

		session := api.New(cfg, api.WithLogger(zlog))
		fmt.Printf("Authenticating against %s as user '%s'...\n", session.BaseURL(), user)

		token, err := session.Authenticate()
		if err != nil {
			fmt.Printf("Fatal: Login failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Login successful. Saving configuration...")

		if err := config.SaveSession(host, port, user, token); err != nil {
			fmt.Printf("Failed to save configuration file: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Session saved. You can now run commands like 'unifi-protect-cli cameras list'.")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&host, "host", "", "NVR host name or IP (e.g. 192.168.1.10)")
	loginCmd.Flags().IntVar(&port, "port", api.DefaultPort, "NVR API port")
	loginCmd.Flags().StringVarP(&user, "username", "u", "admin", "Local Protect user")
	loginCmd.Flags().StringVarP(&pass, "password", "p", "", "Password")
	loginCmd.Flags().BoolVar(&insecure, "insecure", true, "Skip TLS certificate verification (Protect uses self-signed certificates)")

	_ = loginCmd.MarkFlagRequired("host")
	_ = loginCmd.MarkFlagRequired("password")
}
