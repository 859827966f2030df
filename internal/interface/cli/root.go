// Package cli 管理命令行工具libctl
//
// 命令直接连接数据库,不经过HTTP接口:
//
//	libctl migrate                     迁移表结构
//	libctl open                        未归还借阅
//	libctl overdue --as-of 2024-03-01  逾期借阅
//	libctl librarian create ...        创建馆员账号
//	libctl events                      订阅借阅事件
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	applending "github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/logger"
)

// Options 命令运行依赖,测试时替换
type Options struct {
	// LoadConfig 按目录加载配置,为空时使用config.Load
	LoadConfig func(paths ...string) (*config.Config, error)
	Clock      clock.Clock
}

// NewRootCmd 创建libctl根命令
func NewRootCmd(opts Options) *cobra.Command {
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}

	var configDir string
	var verbose bool

	root := &cobra.Command{
		Use:           "libctl",
		Short:         "图书馆管理工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configDir, "config", "c", "", "配置文件目录(默认./config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	e := &env{opts: opts, configDir: &configDir, verbose: &verbose}

	root.AddCommand(migrateCmd(e))
	root.AddCommand(openCmd(e))
	root.AddCommand(overdueCmd(e))
	root.AddCommand(librarianCmd(e))
	root.AddCommand(eventsCmd(e))
	return root
}

// env 命令共享的配置、日志和数据库连接
type env struct {
	opts      Options
	configDir *string
	verbose   *bool

	cfg *config.Config
	log *zap.Logger
}

func (e *env) load() error {
	if e.cfg != nil {
		return nil
	}
	var paths []string
	if *e.configDir != "" {
		paths = append(paths, *e.configDir)
	}
	cfg, err := e.opts.LoadConfig(paths...)
	if err != nil {
		return err
	}

	// 日志写stderr,stdout只留给命令输出
	level := "warn"
	if *e.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:  level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return err
	}

	e.cfg, e.log = cfg, log
	return nil
}

// openDB 连接数据库,migrate为false时不自动迁移
func (e *env) openDB(migrate bool) (*gorm.DB, func(), error) {
	if err := e.load(); err != nil {
		return nil, nil, err
	}
	cfg := *e.cfg
	cfg.Database.AutoMigrate = migrate
	// CLI不需要SQL日志
	cfg.Server.Mode = "release"
	return rdb.NewDB(&cfg, e.log)
}

func (e *env) lendingQueries(db *gorm.DB) *applending.QueryLendingsUseCase {
	svc := lending.NewService(
		rdb.NewLendingRepository(db),
		rdb.NewBookRepository(db),
		rdb.NewReaderRepository(db),
		e.opts.Clock,
	)
	return applending.NewQueryLendingsUseCase(svc)
}
