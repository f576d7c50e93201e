package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"unifi-protect-cli/internal/api"
	"unifi-protect-cli/internal/metrics"
)

// Variables to hold flag values
var (
	expListen     string
	serviceAction string // "install", "uninstall", "start", "stop", "restart"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	server  *http.Server
	session *api.Session
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	go p.run()
	return nil
}

func (p *program) run() {
	zlog.Info("attempting initial login")
	if _, err := p.session.Authenticate(); err != nil {
		// Exit so the service manager restarts us.
		zlog.Error("initial login failed", zap.Error(err))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.NewCollector(p.session, zlog))

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(zlog),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	p.server = &http.Server{
		Addr:    expListen,
		Handler: mux,
	}

	zlog.Info("exporter listening", zap.String("addr", expListen))

	if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Error("HTTP server error", zap.Error(err))
	}
}

func (p *program) Stop(s service.Service) error {
	zlog.Info("stopping service")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			zlog.Warn("server forced to shutdown", zap.Error(err))
		}
	}
	return nil
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that exposes camera and NVR state from
the bootstrap document. Can be installed as a system service.

The exporter logs in with the password from the config file or
UNIFI_PROTECT_PASSWORD, since a saved token eventually expires.`,
	Run: func(cmd *cobra.Command, args []string) {
		session := setupSession()
		if session.Config.Password == "" {
			fmt.Println("Error: The exporter needs a password in the config file or UNIFI_PROTECT_PASSWORD.")
			os.Exit(1)
		}

		svcConfig := &service.Config{
			Name:        "unifi-protect-exporter",
			DisplayName: "UniFi Protect Prometheus Exporter",
			Description: "Exposes UniFi Protect camera metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{"exporter", "--listen", expListen},
		}
		if used := viper.ConfigFileUsed(); used != "" {
			svcConfig.Arguments = append(svcConfig.Arguments, "--config", used)
		}

		prg := &program{session: session}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if err := service.Control(s, serviceAction); err != nil {
				fmt.Printf("Failed to %s service: %v\n", serviceAction, err)
				os.Exit(1)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// Run the Service (Blocking)
		// This happens when the Service Manager starts the binary, OR when run interactively without flags
		if err = s.Run(); err != nil {
			zlog.Error("service exited", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expListen, "listen", ":9100", "Address to listen on")
	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop, restart")
}
