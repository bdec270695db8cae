package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	PostPublished string `mapstructure:"postPublished" yaml:"postPublished"` //  文章发布主题（邮件投递等下游消费）
	PostDeleted   string `mapstructure:"postDeleted" yaml:"postDeleted"`     //  文章删除主题
}
