package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"unifi-protect-cli/internal/api"
	"unifi-protect-cli/internal/logger"
)

const (
	configName = ".unifi-protect-cli"
	envPrefix  = "UNIFI_PROTECT"
)

// Settings is the resolved configuration for one run.
type Settings struct {
	Host         string
	Port         int
	Username     string
	Password     string
	Token        string
	DownloadPath string
	Insecure     bool
	Log          logger.LogConfig
}

// APIConfig converts the settings into a session config.
func (s Settings) APIConfig() api.Config {
	return api.Config{
		Credentials: api.Credentials{
			Host:     s.Host,
			Port:     s.Port,
			Username: s.Username,
			Password: s.Password,
		},
		DownloadPath:       s.DownloadPath,
		InsecureSkipVerify: s.Insecure,
	}
}

func setDefaults() {
	logDefaults := logger.DefaultConfig()

	viper.SetDefault("port", api.DefaultPort)
	viper.SetDefault("username", "admin")
	// Protect consoles ship self-signed certificates.
	viper.SetDefault("insecure", true)
	viper.SetDefault("log.level", logDefaults.Level)
	viper.SetDefault("log.output", logDefaults.Output)
	viper.SetDefault("log.file", logDefaults.FilePath)
	viper.SetDefault("log.max_size", logDefaults.MaxSize)
	viper.SetDefault("log.max_backups", logDefaults.MaxBackups)
	viper.SetDefault("log.max_age", logDefaults.MaxAge)
}

// InitConfig reads in config file and ENV variables if set.
// A missing config file is not an error.
func InitConfig(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// Search config in home directory with name ".unifi-protect-cli" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(configName)
	}

	// UNIFI_PROTECT_HOST, UNIFI_PROTECT_LOG_LEVEL, ...
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load returns the settings currently held by viper.
func Load() Settings {
	return Settings{
		Host:         viper.GetString("host"),
		Port:         viper.GetInt("port"),
		Username:     viper.GetString("username"),
		Password:     viper.GetString("password"),
		Token:        viper.GetString("token"),
		DownloadPath: viper.GetString("download_path"),
		Insecure:     viper.GetBool("insecure"),
		Log: logger.LogConfig{
			Level:      viper.GetString("log.level"),
			Output:     viper.GetString("log.output"),
			FilePath:   viper.GetString("log.file"),
			MaxSize:    viper.GetInt("log.max_size"),
			MaxBackups: viper.GetInt("log.max_backups"),
			MaxAge:     viper.GetInt("log.max_age"),
		},
	}
}

// SaveSession updates the config file with the NVR address, user and the
// bearer token from a successful login. Only the file's own keys plus these
// are written, so passwords from flags or the environment never land on disk.
func SaveSession(host string, port int, username, token string) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, configName+".yaml")
	}

	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	values := map[string]any{
		"host":     host,
		"port":     port,
		"username": username,
		"token":    token,
	}
	for k, v := range values {
		file.Set(k, v)
		viper.Set(k, v)
	}

	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
