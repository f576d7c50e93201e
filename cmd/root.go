package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"unifi-protect-cli/internal/api"
	"unifi-protect-cli/internal/config"
	"unifi-protect-cli/internal/logger"
	"unifi-protect-cli/internal/protect"
)

var (
	cfgFile    string
	jsonOutput bool

	zlog     = zap.NewNop()
	closeLog = func() {}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "unifi-protect-cli",
	Short: "A CLI for the UniFi Protect NVR API",
	Long: `Inspect the NVR and its cameras, filter cameras by state or attributes,
download snapshots and export video clips.`,
}

func Execute() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.unifi-protect-cli.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if err := config.InitConfig(cfgFile); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	l, closeFn, err := logger.New(config.Load().Log)
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	zlog, closeLog = l, closeFn
}

// setupSession builds a session from the saved configuration. A token saved
// by 'login' is reused; the password is only needed when there is none.
func setupSession() *api.Session {
	settings := config.Load()

	if settings.Host == "" {
		fmt.Println("Error: No NVR configured. Please run 'unifi-protect-cli login' first.")
		os.Exit(1)
	}
	if settings.Token == "" && settings.Password == "" {
		fmt.Println("Error: Not logged in. Please run 'unifi-protect-cli login' or set UNIFI_PROTECT_PASSWORD.")
		os.Exit(1)
	}

	return api.New(settings.APIConfig(), api.WithLogger(zlog), api.WithToken(settings.Token))
}

func setupClient() *protect.Client {
	return protect.NewClient(setupSession())
}

// exitOnError prints err with a hint for stale tokens and exits.
func exitOnError(action string, err error) {
	fmt.Printf("Error %s: %v\n", action, err)
	if api.IsUnauthorized(err) {
		fmt.Println("The saved token may have expired. Please run 'unifi-protect-cli login' again.")
	}
	os.Exit(1)
}
