// dependencies/mysql.go
package dependencies

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/plugin/dbresolver"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	appConfig "github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/models/entities"
)

// InitMySQL 初始化 MySQL 连接，并配置读写分离 (如果配置了从库)
func InitMySQL(cfg *appConfig.BlogConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	mysqlCfg := cfg.MySQLConfig     // 获取 MySQL 配置
	gormLogCfg := cfg.GormLogConfig // 获取 GORM 日志配置

	// --- 主库连接 ---
	if mysqlCfg.Write.DSN == "" {
		return nil, fmt.Errorf("主数据库 DSN (mysql.write.dsn) 未配置")
	}
	gormLogger := core.NewGormLogger(logger, gormLogCfg)
	gormConfig := &gorm.Config{
		Logger: gormLogger,
	}

	var db *gorm.DB
	var err error
	maxRetries := 5
	retryInterval := 2 * time.Second

	// 重试连接主库
	logger.Info("开始连接主数据库...")
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.Open(mysqlCfg.Write.DSN), gormConfig)
		if err == nil {
			var sqlDB *sql.DB
			var dbErr error
			sqlDB, dbErr = db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					err = nil
					break
				}
				err = pingErr // Ping 失败
			} else {
				err = dbErr // 获取 sql.DB 失败
			}
		}
		logger.Warn("无法连接到主数据库，尝试重试", zap.Int("retry", i+1), zap.Int("maxRetries", maxRetries), zap.Error(err))
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		logger.Error("无法连接到主数据库", zap.Error(err))
		return nil, fmt.Errorf("无法连接到主数据库: %w", err)
	}
	logger.Info("成功连接到主数据库")

	// --- 配置读写分离 (dbresolver) ---
	readReplicas := make([]gorm.Dialector, 0, len(mysqlCfg.Read))
	for i, replicaCfg := range mysqlCfg.Read {
		if replicaCfg.DSN == "" {
			logger.Warn("发现空的从库 DSN 配置，已跳过", zap.Int("index", i))
			continue
		}
		readReplicas = append(readReplicas, mysql.Open(replicaCfg.DSN))
		logger.Info("发现并准备配置从数据库", zap.Int("index", i))
	}

	// 只有在配置了有效的从库时才启用读写分离插件
	if len(readReplicas) > 0 {
		resolverConfig := dbresolver.Config{
			Sources:  []gorm.Dialector{mysql.Open(mysqlCfg.Write.DSN)}, // 主库作为写源
			Replicas: readReplicas,                                     // 从库作为读源
			Policy:   dbresolver.StrictRoundRobinPolicy(),              // 使用轮询策略分配读请求
		}
		err = db.Use(dbresolver.Register(resolverConfig))
		if err != nil {
			logger.Error("配置 GORM 读写分离插件失败", zap.Error(err))
			return nil, fmt.Errorf("配置 GORM 读写分离失败: %w", err)
		}
		logger.Info("成功配置 GORM 读写分离插件", zap.Int("从库数量", len(readReplicas)))
	} else {
		logger.Info("未配置有效的从数据库，不启用读写分离")
	}

	// --- 配置连接池 ---
	sqlDB, dbErr := db.DB()
	if dbErr != nil {
		logger.Error("无法获取数据库对象以配置连接池", zap.Error(dbErr))
		return nil, fmt.Errorf("无法获取数据库对象: %w", dbErr)
	}

	// 以共享设置为基础，允许被主库的独立设置覆盖
	maxIdle := mysqlCfg.SharedMaxIdleConns
	maxOpen := mysqlCfg.SharedMaxOpenConns
	maxLife := mysqlCfg.SharedConnMaxLifetime

	if mysqlCfg.Write.MaxIdleConns != nil {
		maxIdle = *mysqlCfg.Write.MaxIdleConns
	}
	if mysqlCfg.Write.MaxOpenConns != nil {
		maxOpen = *mysqlCfg.Write.MaxOpenConns
	}
	if mysqlCfg.Write.ConnMaxLifetime != nil {
		maxLife = *mysqlCfg.Write.ConnMaxLifetime
	}

	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(maxLife) * time.Second)

	logger.Info("配置数据库连接池",
		zap.Int("最大空闲连接数", maxIdle),
		zap.Int("最大打开连接数", maxOpen),
		zap.Int("连接最大生命周期(秒)", maxLife),
	)
	// 再次 Ping 确保配置后连接池可用
	if pingErr := sqlDB.Ping(); pingErr != nil {
		logger.Error("配置连接池后 Ping 数据库失败", zap.Error(pingErr))
		return nil, fmt.Errorf("配置连接池后 Ping 失败: %w", pingErr)
	}

	// --- 自动迁移 ---
	// AutoMigrate 默认会发送到主库 (Source)
	logger.Info("开始执行数据库自动迁移...")
	migrateErr := db.AutoMigrate(
		&entities.Post{},
		&entities.Tag{},
		&entities.Newsletter{},
	)
	if migrateErr != nil {
		logger.Error("数据库自动迁移失败", zap.Error(migrateErr))
		return nil, fmt.Errorf("数据库自动迁移失败: %w", migrateErr)
	}
	logger.Info("数据库自动迁移完成")

	// --- 全文索引 ---
	// AutoMigrate 不支持 FULLTEXT 索引，需要手动建；已存在时跳过
	if err := ensureFulltextIndex(db, logger); err != nil {
		return nil, err
	}

	logger.Info("成功初始化 MySQL 连接 (包括读写分离和自动迁移)")
	return db, nil
}

// ensureFulltextIndex 在 posts 表上创建布尔模式检索依赖的全文索引
func ensureFulltextIndex(db *gorm.DB, logger *core.ZapLogger) error {
	var count int64
	checkSQL := `SELECT COUNT(1) FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = 'posts' AND index_name = 'idx_posts_fulltext'`
	if err := db.Raw(checkSQL).Scan(&count).Error; err != nil {
		logger.Error("检查全文索引是否存在失败", zap.Error(err))
		return fmt.Errorf("检查全文索引失败: %w", err)
	}
	if count > 0 {
		logger.Info("全文索引已存在，跳过创建")
		return nil
	}

	createSQL := `ALTER TABLE posts ADD FULLTEXT INDEX idx_posts_fulltext (title, excerpt, content)`
	if err := db.Exec(createSQL).Error; err != nil {
		logger.Error("创建全文索引失败", zap.Error(err))
		return fmt.Errorf("创建全文索引失败: %w", err)
	}
	logger.Info("成功创建全文索引", zap.String("index", "idx_posts_fulltext"))
	return nil
}
