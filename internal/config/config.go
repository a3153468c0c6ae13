package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/advantech-ae/idaqscan/internal/scanner"
)

const (
	DefaultWindowsPath = `C:\Advantech\DAQNavi\DeviceManager(Console)\dndev.exe`
	DefaultLinuxPath   = "/opt/advantech/tools/dndev"
	DefaultMode        = "linux"
)

type Config struct {
	Tool     ToolConfig     `mapstructure:"tool"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Log      LogConfig      `mapstructure:"log"`
}

type ToolConfig struct {
	WindowsPath string        `mapstructure:"windows_path"`
	LinuxPath   string        `mapstructure:"linux_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type DefaultsConfig struct {
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

var cfg *Config

func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "idaqscan"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.BindEnv("tool.windows_path", "IDAQ_WINDOWS_PATH")
	viper.BindEnv("tool.linux_path", "IDAQ_LINUX_PATH")
	viper.BindEnv("tool.timeout", "IDAQ_TIMEOUT")
	viper.BindEnv("defaults.mode", "IDAQ_MODE")
	viper.BindEnv("log.file", "IDAQ_LOG_FILE")

	viper.SetDefault("tool.windows_path", DefaultWindowsPath)
	viper.SetDefault("tool.linux_path", DefaultLinuxPath)
	viper.SetDefault("tool.timeout", scanner.DefaultTimeout)
	viper.SetDefault("defaults.mode", DefaultMode)

	// A missing config file is fine; defaults and env still apply.
	viper.ReadInConfig()

	cfg = &Config{}
	viper.Unmarshal(cfg)
}

func Get() *Config {
	if cfg == nil {
		InitConfig("")
	}
	return cfg
}

func (c *Config) Validate() error {
	if _, err := scanner.ParseOSMode(c.GetMode()); err != nil {
		return fmt.Errorf("invalid defaults.mode: %w", err)
	}
	if c.Tool.Timeout < 0 {
		return fmt.Errorf("tool.timeout must not be negative, got %s", c.Tool.Timeout)
	}
	return nil
}

func (c *Config) GetMode() string {
	if c.Defaults.Mode != "" {
		return c.Defaults.Mode
	}
	return DefaultMode
}

// ToolPath returns the configured dndev location for the given target platform.
func (c *Config) ToolPath(mode scanner.OSMode) string {
	if mode == scanner.Windows {
		if c.Tool.WindowsPath != "" {
			return c.Tool.WindowsPath
		}
		return DefaultWindowsPath
	}
	if c.Tool.LinuxPath != "" {
		return c.Tool.LinuxPath
	}
	return DefaultLinuxPath
}

// GetTimeout returns the bound on one tool run. Zero means no bound.
func (c *Config) GetTimeout() time.Duration {
	return c.Tool.Timeout
}
