package config

// SourceConfig 代表一个数据库源（主库或从库）的配置
type SourceConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"` // 直接使用 DSN 字符串
	// 独立的连接池设置，允许覆盖共享设置；使用指针以区分"未设置"和"设置为零值"
	MaxIdleConns    *int `mapstructure:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	MaxOpenConns    *int `mapstructure:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	ConnMaxLifetime *int `mapstructure:"conn_max_lifetime,omitempty" yaml:"conn_max_lifetime,omitempty"` // 秒
}

// MySQLConfig 包含主库和从库的配置 (使用 DSN)
// - 博客是典型的读多写少场景，公开列表/详情读可以走从库
type MySQLConfig struct {
	Write SourceConfig   `mapstructure:"write" yaml:"write"` // 主库配置
	Read  []SourceConfig `mapstructure:"read" yaml:"read"`   // 从库配置列表 (可以为空，表示不启用读写分离)

	// 共享/默认连接池设置 (如果 Write/Read 中未指定，则使用这些值)
	SharedMaxIdleConns    int `mapstructure:"max_idle_conns" yaml:"max_idle_conn"`
	SharedMaxOpenConns    int `mapstructure:"max_open_conn" yaml:"max_open_conn"`
	SharedConnMaxLifetime int `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 秒
}
