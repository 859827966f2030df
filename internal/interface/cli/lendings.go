package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/clock"
)

func openCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "列出未归还的借阅",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := e.openDB(false)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := e.lendingQueries(db).ListOpen(cmd.Context())
			if err != nil {
				return err
			}
			printLendings(cmd.OutOrStdout(), list, clock.Today(e.opts.Clock), "没有未归还的借阅")
			return nil
		},
	}
}

func overdueCmd(e *env) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "列出逾期未还的借阅",
		Long: `列出应还日期早于指定日期且尚未归还的借阅。
--as-of缺省为今天,格式YYYY-MM-DD。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at := clock.Today(e.opts.Clock)
			if asOf != "" {
				d, err := clock.ParseDate(asOf)
				if err != nil {
					return fmt.Errorf("--as-of格式错误: %w", err)
				}
				at = d
			}

			db, cleanup, err := e.openDB(false)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := e.lendingQueries(db).ListOverdue(cmd.Context(), at)
			if err != nil {
				return err
			}
			printLendings(cmd.OutOrStdout(), list, at, "没有逾期借阅")
			return nil
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "截止日期(YYYY-MM-DD)")
	return cmd
}

// printLendings 表格输出借阅,逾期天数按asOf计算并标红
func printLendings(w io.Writer, list []*lending.Lending, asOf time.Time, empty string) {
	if len(list) == 0 {
		fmt.Fprintln(w, empty)
		return
	}

	red := color.New(color.FgRed)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t读者\t图书\t借出日期\t应还日期\t逾期")
	for _, l := range list {
		late := "-"
		if l.IsOverdue(asOf) {
			days := int(clock.DateOf(asOf).Sub(l.DateOfDue).Hours() / 24)
			late = red.Sprintf("%d天", days)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			l.ID,
			readerLabel(l),
			bookLabel(l),
			l.DateOfIssue.Format(time.DateOnly),
			l.DateOfDue.Format(time.DateOnly),
			late,
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "共%d条\n", len(list))
}

func readerLabel(l *lending.Lending) string {
	if l.Reader == nil {
		return "#" + strconv.FormatUint(uint64(l.ReaderID), 10)
	}
	return l.Reader.FullName() + " (" + l.Reader.ReadersTicket + ")"
}

func bookLabel(l *lending.Lending) string {
	if l.Book == nil {
		return "#" + strconv.FormatUint(uint64(l.BookID), 10)
	}
	return l.Book.Name
}
