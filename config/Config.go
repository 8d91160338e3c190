package config

import (
	"github.com/flowly-io/flowly/analytics"
)

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	HttpPort               int
	StorageType            StorageType
	RedisConfig            RedisStorageConfig
	InvokerConfig          InvokerConfig
	AIConfig               AIConfig
	ExecutorCapacity       int
	DefinitionCacheTtlSec  int
	ExecutionCacheTtlSec   int
	ExecutionRetentionDays int
	AnalyticsConfig        analytics.DataCollectorConfig
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
	PoolSize  int
	Password  string
	DB        int
}

type InvokerConfig struct {
	BaseUrl    string
	TimeoutSec int
}

type AIConfig struct {
	ApiKey  string
	BaseUrl string
	Model   string
}
