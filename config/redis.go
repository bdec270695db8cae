package config

// RedisConfig 包含 Redis 连接配置
// - 浏览量计数、防刷 Bloom Filter 和热门文章缓存共用同一个实例
type RedisConfig struct {
	Address  string `mapstructure:"address" json:"address" yaml:"address"`    // host:port
	Password string `mapstructure:"password" json:"password" yaml:"password"` // 为空表示无密码
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`                   // 逻辑库编号
	PoolSize int    `mapstructure:"poolSize" json:"poolSize" yaml:"poolSize"` // 连接池大小，0 使用客户端默认值
}
