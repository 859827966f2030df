package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	applending "github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/pkg/mq"
)

func eventsCmd(e *env) *cobra.Command {
	var queue string
	var keys []string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "订阅并打印借阅事件",
		Long: `连接RabbitMQ,按routing key订阅借阅事件并逐条打印,Ctrl+C退出。
routing key支持通配符: lending.* 或 lending.#`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.load(); err != nil {
				return err
			}

			consumer, err := mq.NewConsumer(e.cfg.MQ.URL, e.cfg.MQ.Exchange, "topic", queue, keys, e.log)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return consumer.Consume(ctx, func(_ context.Context, d mq.Delivery) error {
				return printEvent(out, d)
			})
		},
	}
	cmd.Flags().StringVar(&queue, "queue", "libctl.events", "队列名称")
	cmd.Flags().StringSliceVar(&keys, "key", []string{"lending.#"}, "routing key(可重复)")
	return cmd
}

var eventColors = map[string]*color.Color{
	applending.EventIssued:   color.New(color.FgCyan),
	applending.EventReturned: color.New(color.FgGreen),
	applending.EventUpdated:  color.New(color.FgYellow),
	applending.EventDeleted:  color.New(color.FgRed),
}

// printEvent 打印一条借阅事件,消息体无法解析时返回错误(消息重新入队)
func printEvent(w io.Writer, d mq.Delivery) error {
	var ev applending.Event
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		return fmt.Errorf("解析事件失败: %w", err)
	}

	label := d.RoutingKey
	if c, ok := eventColors[ev.Type]; ok {
		label = c.Sprint(d.RoutingKey)
	}

	fmt.Fprintf(w, "%s %-18s lending=%d", ev.OccurredAt.Local().Format("2006-01-02 15:04:05"), label, ev.LendingID)
	if ev.ReaderID != 0 {
		fmt.Fprintf(w, " reader=%d book=%d", ev.ReaderID, ev.BookID)
	}
	if ev.DateOfIssue != "" {
		fmt.Fprintf(w, " issued=%s due=%s", ev.DateOfIssue, ev.DateOfDue)
	}
	if ev.ReturnDate != "" {
		fmt.Fprintf(w, " returned=%s", ev.ReturnDate)
	}
	fmt.Fprintln(w)
	return nil
}
