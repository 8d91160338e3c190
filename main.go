package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/flowly-io/flowly/agent"
	"github.com/flowly-io/flowly/analytics"
	"github.com/flowly-io/flowly/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "redis", "implementation of underline storage")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "flowly", "namespace used in storage")
	cmd.Flags().String("redis-password", "", "redis password")
	cmd.Flags().Int("redis-pool-size", 10, "redis connection pool size")
	cmd.Flags().Int("redis-db", 0, "redis database number")
	cmd.Flags().String("invoker-base-url", "", "base url prepended to endpoint paths")
	cmd.Flags().Int("invoker-timeout", 30, "endpoint invocation timeout in seconds")
	cmd.Flags().Int("executor-capacity", 512, "workflow executor capacity")
	cmd.Flags().Int("definition-cache-ttl", 60, "workflow definition cache ttl in seconds")
	cmd.Flags().Int("execution-cache-ttl", 300, "execution state cache ttl in seconds")
	cmd.Flags().Int("execution-retention-days", 7, "archived execution retention in days")
	cmd.Flags().String("ai-api-key", "", "api key for the suggestion model provider")
	cmd.Flags().String("ai-base-url", "", "base url of the suggestion model provider")
	cmd.Flags().String("ai-model", "gpt-4o", "model used by suggestion services")
	cmd.Flags().String("analytics-collector", "NOOP_DATA_COLLECTOR", "analytics data collector implementation")
	cmd.Flags().String("analytics-file", "flowly-analytics.log", "file used by the log file data collector")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.RedisConfig.Password = viper.GetString("redis-password")
	c.cfg.RedisConfig.PoolSize = viper.GetInt("redis-pool-size")
	c.cfg.RedisConfig.DB = viper.GetInt("redis-db")
	c.cfg.InvokerConfig.BaseUrl = viper.GetString("invoker-base-url")
	c.cfg.InvokerConfig.TimeoutSec = viper.GetInt("invoker-timeout")
	c.cfg.ExecutorCapacity = viper.GetInt("executor-capacity")
	c.cfg.DefinitionCacheTtlSec = viper.GetInt("definition-cache-ttl")
	c.cfg.ExecutionCacheTtlSec = viper.GetInt("execution-cache-ttl")
	c.cfg.ExecutionRetentionDays = viper.GetInt("execution-retention-days")
	c.cfg.AIConfig.ApiKey = viper.GetString("ai-api-key")
	c.cfg.AIConfig.BaseUrl = viper.GetString("ai-base-url")
	c.cfg.AIConfig.Model = viper.GetString("ai-model")
	c.cfg.AnalyticsConfig.CollectorType = analytics.DataCollectorType(viper.GetString("analytics-collector"))
	c.cfg.AnalyticsConfig.FileName = viper.GetString("analytics-file")
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	var err error
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		panic(err)
	}
	err = agent.Start()
	if err != nil {
		panic(err)
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "flowly",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
