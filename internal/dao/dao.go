// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/haierkeys/fast-note-web/internal/model"
	"github.com/haierkeys/fast-note-web/pkg/fileurl"
	"github.com/haierkeys/fast-note-web/pkg/util"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// Config 数据库配置
type Config struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机，可带端口
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// Replicas read replicas: sqlite file paths, or hosts sharing the primary credentials
	// Replicas 只读副本：SQLite 为文件路径，其它为与主库共用账号的主机
	Replicas []string `yaml:"replicas"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m（分钟）、1h（小时），默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，默认 10m
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
	// Debug 输出 SQL 日志
	Debug bool `yaml:"debug"`
}

// Dao wraps the gorm engine and migrates the schema once on first use
// Dao 封装 gorm 引擎，首次使用时迁移表结构
type Dao struct {
	db      *gorm.DB
	logger  *zap.Logger
	migrate bool

	once       sync.Once
	migrateErr error
}

// New 创建 Dao，autoMigrate 为 true 时首次访问会自动迁移
func New(db *gorm.DB, autoMigrate bool, logger *zap.Logger) *Dao {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dao{db: db, logger: logger, migrate: autoMigrate}
}

// DB 返回底层 gorm 引擎
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// Use returns a session bound to ctx, running the schema migration first when enabled
// Use 返回绑定 ctx 的会话，启用时先执行表结构迁移
func (d *Dao) Use(ctx context.Context) (*gorm.DB, error) {
	if d.migrate {
		d.once.Do(func() {
			d.migrateErr = model.AutoMigrate(d.db)
			if d.migrateErr != nil {
				d.logger.Error("dao auto migrate failed", zap.Error(d.migrateErr))
			}
		})
		if d.migrateErr != nil {
			return nil, d.migrateErr
		}
	}
	return d.db.WithContext(ctx), nil
}

// Transaction 在事务中执行 fn
func (d *Dao) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, err := d.Use(ctx)
	if err != nil {
		return err
	}
	return db.Transaction(fn)
}

// Table 返回带前缀的表名，name 为模型名，如 "Note"
func (d *Dao) Table(name string) string {
	return d.db.NamingStrategy.TableName(name)
}

// JoinTable 返回带前缀的关联表名
func (d *Dao) JoinTable(name string) string {
	return d.db.NamingStrategy.JoinTableName(name)
}

// Close 关闭数据库连接
func (d *Dao) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewDBEngine opens the primary database, registers read replicas and the tracing plugin
// NewDBEngine 打开主库，注册只读副本与追踪插件
func NewDBEngine(c Config, zl *zap.Logger) (*gorm.DB, error) {
	primary, err := dialector(c, c.Host, c.Path)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(primary, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀，`User` 的表名应该是 `t_user`
			SingularTable: true,          // 使用单数表名
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if c.Debug {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	}

	lifetime, _ := util.ParseDuration(c.ConnMaxLifetime)
	idleTime, _ := util.ParseDuration(c.ConnMaxIdleTime)

	if len(c.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(c.Replicas))
		for _, r := range c.Replicas {
			d, err := dialector(c, r, r)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, d)
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxIdleConns(c.MaxIdleConns).
			SetMaxOpenConns(c.MaxOpenConns).
			SetConnMaxLifetime(lifetime).
			SetConnMaxIdleTime(idleTime)
		if err := db.Use(resolver); err != nil {
			return nil, errors.Wrap(err, "register read replicas")
		}
		zl.Info("database read replicas registered", zap.Int("count", len(replicas)))
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	if lifetime > 0 {
		sqlDB.SetConnMaxLifetime(lifetime)
	}
	if idleTime > 0 {
		sqlDB.SetConnMaxIdleTime(idleTime)
	}

	_ = db.Use(&gormTracing.OpentracingPlugin{})

	return db, nil
}

func dialector(c Config, host, path string) (gorm.Dialector, error) {
	switch c.Type {
	case "sqlite", "":
		if path == "" {
			return nil, errors.New("database path is empty")
		}
		if !fileurl.IsExist(path) {
			if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
				return nil, errors.Wrap(err, "create database dir")
			}
		}
		return sqlite.Open(path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"), nil
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local&clientFoundRows=true",
			c.UserName,
			c.Password,
			host,
			c.Name,
			c.Charset,
			c.ParseTime,
		)), nil
	case "postgres":
		h, port := splitHostPort(host, 5432)
		return postgres.Open(fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			h, port, c.UserName, c.Password, c.Name,
		)), nil
	}
	return nil, errors.Errorf("unsupported database type %q", c.Type)
}

func splitHostPort(hostport string, defaultPort int) (string, int) {
	host, p, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, defaultPort
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return host, defaultPort
	}
	return host, port
}

// likePattern 转义 LIKE 通配符，返回小写的包含匹配模式，转义字符为 !
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
