package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建或更新数据库表结构",
		Long: `按当前配置连接数据库并迁移librarians、books、readers、lendings四张表。
只会创建表、添加字段和索引,不会删除已有字段。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cleanup, err := e.openDB(true)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintf(cmd.OutOrStdout(), "%s 数据库迁移完成 (%s)\n",
				color.New(color.FgGreen).Sprint("✓"), e.cfg.Database.Driver)
			return nil
		},
	}
}
