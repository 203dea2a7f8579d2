package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "UPBOT"

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upbot",
		Short: "Telegram bot that relays direct download URLs as uploads",
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("config", "", "Config file path (optional).")
	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	cmd.PersistentFlags().String("log-level", "", "Logging level: debug|info|warn|error (defaults to info).")
	cmd.PersistentFlags().String("log-format", "text", "Logging format: text|json.")
	cmd.PersistentFlags().Bool("log-add-source", false, "Include source file:line in logs.")

	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("logging.add_source", cmd.PersistentFlags().Lookup("log-add-source"))

	cmd.AddCommand(newBotCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func initConfig() {
	// Best-effort .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	initViperDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// Bare-name aliases matching the historical deployment environment.
	_ = viper.BindEnv("telegram.bot_token", "UPBOT_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	_ = viper.BindEnv("telegram.allowed_users", "UPBOT_TELEGRAM_ALLOWED_USERS", "ALLOWED_USERS")
	_ = viper.BindEnv("limits.per_minute", "UPBOT_LIMITS_PER_MINUTE", "RATE_LIMIT")

	cfgFile := strings.TrimSpace(viper.GetString("config"))
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		_, _ = os.Stderr.WriteString("Failed to read config: " + err.Error() + "\n")
	}
}

func initViperDefaults() {
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)

	viper.SetDefault("limits.per_minute", 3)
	viper.SetDefault("limits.max_file_size_bytes", int64(2000*1024*1024))

	viper.SetDefault("telegram.poll_timeout", 30*time.Second)
	viper.SetDefault("telegram.upload_timeout", 300*time.Second)

	viper.SetDefault("fetch.timeout", 30*time.Second)

	viper.SetDefault("pipeline.workers", 4)
	viper.SetDefault("pipeline.queue_size", 16)

	viper.SetDefault("health.bind", "0.0.0.0")
	viper.SetDefault("health.port", 8000)
}
