package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	applibrarian "github.com/xiebiao/library/internal/application/librarian"
	"github.com/xiebiao/library/internal/domain/librarian"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

func librarianCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "librarian",
		Short: "馆员账号管理",
	}
	cmd.AddCommand(librarianCreateCmd(e))
	return cmd
}

func librarianCreateCmd(e *env) *cobra.Command {
	var req applibrarian.RegisterRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "创建馆员账号",
		Long: `创建可登录HTTP接口的馆员账号。
首个账号只能通过此命令创建,之后可由已登录馆员调用POST /api/v1/librarians。`,
		Example: `  libctl librarian create --email admin@library.local --password 's3cret-pass' --full-name 'Иванова Мария'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Email == "" || req.Password == "" {
				return errors.New("--email和--password不能为空")
			}

			db, cleanup, err := e.openDB(false)
			if err != nil {
				return err
			}
			defer cleanup()

			uc := applibrarian.NewRegisterUseCase(
				librarian.NewService(rdb.NewLibrarianRepository(db), librarian.DefaultBcryptCost),
				rdb.NewTxManager(db),
			)
			info, err := uc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s 馆员已创建: #%d %s\n",
				color.New(color.FgGreen).Sprint("✓"), info.ID, info.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "登录邮箱")
	cmd.Flags().StringVar(&req.Password, "password", "", "登录密码(8-20位,包含字母和数字)")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "姓名")
	return cmd
}
