package lending

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/reader"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/clock"
)

// recordingPublisher 记录发布的事件,fail非空时返回错误
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	fail   error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	ev := message.(Event)
	if ev.Type != routingKey {
		return errors.New("routing key与事件类型不一致")
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	issue   *IssueBookUseCase
	ret     *ReturnBookUseCase
	update  *UpdateLendingUseCase
	remove  *DeleteLendingUseCase
	query   *QueryLendingsUseCase
	events  *recordingPublisher
	book    *book.Book
	book2   *book.Book
	reader  *reader.Reader
	reader2 *reader.Reader
}

var today = clock.Date(2024, 3, 15)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			DBName:       filepath.Join(t.TempDir(), "library.db"),
			AutoMigrate:  true,
			MaxOpenConns: 1,
		},
	}
	db, cleanup, err := rdb.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	c := clock.Fixed(today.Add(10 * time.Hour))
	books := rdb.NewBookRepository(db)
	readers := rdb.NewReaderRepository(db)
	svc := lending.NewService(rdb.NewLendingRepository(db), books, readers, c)
	tx := rdb.NewTxManager(db)
	events := &recordingPublisher{}

	ctx := context.Background()
	f := &fixture{
		issue:  NewIssueBookUseCase(svc, tx, events, c),
		ret:    NewReturnBookUseCase(svc, tx, events, c),
		update: NewUpdateLendingUseCase(svc, tx, events, c),
		remove: NewDeleteLendingUseCase(svc, tx, events, c),
		query:  NewQueryLendingsUseCase(svc),
		events: events,
	}
	f.book = book.NewBook("Война и мир", "Лев Толстой", "Роман", "Эксмо", nil)
	f.book2 = book.NewBook("Анна Каренина", "Лев Толстой", "Роман", "Эксмо", nil)
	require.NoError(t, books.Create(ctx, f.book))
	require.NoError(t, books.Create(ctx, f.book2))

	f.reader = &reader.Reader{ReadersTicket: "T-001", LastName: "Иванов", FirstName: "Иван",
		DateOfBirth: clock.Date(1990, 5, 20), Phone: "9161234567"}
	f.reader2 = &reader.Reader{ReadersTicket: "T-002", LastName: "Петров", FirstName: "Пётр",
		DateOfBirth: clock.Date(1985, 1, 2), Phone: "9167654321"}
	require.NoError(t, readers.Create(ctx, f.reader))
	require.NoError(t, readers.Create(ctx, f.reader2))
	return f
}

func TestIssueBookUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.issue.Execute(ctx, IssueBookRequest{ReaderID: f.reader.ID, BookID: f.book.ID})
	require.NoError(t, err)
	assert.Equal(t, today, l.DateOfIssue)
	assert.Equal(t, today.AddDate(0, 0, 14), l.DateOfDue)
	assert.Nil(t, l.ReturnDate)

	t.Run("发布借出事件", func(t *testing.T) {
		require.Len(t, f.events.events, 1)
		ev := f.events.events[0]
		assert.Equal(t, EventIssued, ev.Type)
		assert.Equal(t, l.ID, ev.LendingID)
		assert.Equal(t, "2024-03-15", ev.DateOfIssue)
		assert.Equal(t, "2024-03-29", ev.DateOfDue)
		assert.Empty(t, ev.ReturnDate)
	})

	t.Run("已借出的书不能再借", func(t *testing.T) {
		_, err := f.issue.Execute(ctx, IssueBookRequest{ReaderID: f.reader2.ID, BookID: f.book.ID})
		assert.True(t, errors.Is(err, lending.ErrBookAlreadyLent))
		assert.Len(t, f.events.events, 1, "失败的操作不发布事件")
	})

	t.Run("读者不存在", func(t *testing.T) {
		_, err := f.issue.Execute(ctx, IssueBookRequest{ReaderID: 999, BookID: f.book2.ID})
		assert.True(t, errors.Is(err, reader.ErrReaderNotFound))
	})

	t.Run("图书不存在", func(t *testing.T) {
		_, err := f.issue.Execute(ctx, IssueBookRequest{ReaderID: f.reader.ID, BookID: 999})
		assert.True(t, errors.Is(err, book.ErrBookNotFound))
	})

	t.Run("事件发布失败不影响借出", func(t *testing.T) {
		f.events.fail = errors.New("broker down")
		defer func() { f.events.fail = nil }()

		l, err := f.issue.Execute(ctx, IssueBookRequest{ReaderID: f.reader2.ID, BookID: f.book2.ID})
		require.NoError(t, err)
		assert.NotZero(t, l.ID)
	})
}

func TestReturnBookUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.issue.Execute(ctx, IssueBookRequest{ReaderID: f.reader.ID, BookID: f.book.ID})
	require.NoError(t, err)

	returned, err := f.ret.Execute(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, today, *returned.ReturnDate)
	assert.Equal(t, []string{EventIssued, EventReturned}, f.events.types())

	t.Run("不能重复归还", func(t *testing.T) {
		_, err := f.ret.Execute(ctx, l.ID)
		assert.True(t, errors.Is(err, lending.ErrAlreadyReturned))
	})

	t.Run("归还后可以再次借出", func(t *testing.T) {
		got, err := f.query.ListOpen(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)

		_, err = f.issue.Execute(ctx, IssueBookRequest{ReaderID: f.reader2.ID, BookID: f.book.ID})
		assert.NoError(t, err)
	})

	t.Run("借阅不存在", func(t *testing.T) {
		_, err := f.ret.Execute(ctx, 999)
		assert.True(t, errors.Is(err, lending.ErrLendingNotFound))
	})
}

func TestUpdateAndDeleteLendingUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	l, err := f.issue.Execute(ctx, IssueBookRequest{ReaderID: f.reader.ID, BookID: f.book.ID})
	require.NoError(t, err)

	t.Run("未归还的借阅不能删除", func(t *testing.T) {
		err := f.remove.Execute(ctx, l.ID)
		assert.True(t, errors.Is(err, lending.ErrActiveLoanDeletion))
	})

	t.Run("归还日期早于借出日期", func(t *testing.T) {
		ret := today.AddDate(0, 0, -3)
		_, err := f.update.Execute(ctx, l.ID, UpdateLendingRequest{
			ReaderID: f.reader.ID, BookID: f.book.ID,
			DateOfIssue: today.AddDate(0, 0, -1), ReturnDate: &ret,
		})
		assert.True(t, errors.Is(err, lending.ErrInvalidDates))
	})

	t.Run("更正为已归还后删除", func(t *testing.T) {
		ret := today
		updated, err := f.update.Execute(ctx, l.ID, UpdateLendingRequest{
			ReaderID: f.reader2.ID, BookID: f.book.ID,
			DateOfIssue: today.AddDate(0, 0, -2), ReturnDate: &ret,
		})
		require.NoError(t, err)
		assert.Equal(t, f.reader2.ID, updated.ReaderID)
		assert.False(t, updated.IsOpen())

		require.NoError(t, f.remove.Execute(ctx, l.ID))
		_, err = f.query.Get(ctx, l.ID)
		assert.True(t, errors.Is(err, lending.ErrLendingNotFound))
	})

	assert.Equal(t, []string{EventIssued, EventUpdated, EventDeleted}, f.events.types())
}

func TestQueryLendingsUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.issue.Execute(ctx, IssueBookRequest{ReaderID: f.reader.ID, BookID: f.book.ID})
	require.NoError(t, err)

	t.Run("应还日期当天不算逾期", func(t *testing.T) {
		got, err := f.query.ListOverdue(ctx, today.AddDate(0, 0, 14))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("应还日期次日逾期", func(t *testing.T) {
		got, err := f.query.ListOverdue(ctx, today.AddDate(0, 0, 15))
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("读者借阅历史", func(t *testing.T) {
		got, err := f.query.ListByReader(ctx, f.reader.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, f.book.ID, got[0].BookID)
	})

	t.Run("借出日期区间", func(t *testing.T) {
		got, err := f.query.ListIssuedBetween(ctx, today, today)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestBreakerPublisher(t *testing.T) {
	down := &recordingPublisher{fail: errors.New("connection refused")}
	breaker := circuitbreaker.New("mq", circuitbreaker.Config{
		Timeout:     time.Minute,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(2),
	})
	p := NewBreakerPublisher(down, breaker)
	ctx := context.Background()
	ev := Event{Type: EventIssued, LendingID: 1}

	assert.ErrorContains(t, p.Publish(ctx, EventIssued, ev), "connection refused")
	assert.ErrorContains(t, p.Publish(ctx, EventIssued, ev), "connection refused")

	t.Run("熔断后快速失败", func(t *testing.T) {
		err := p.Publish(ctx, EventIssued, ev)
		assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	})

	t.Run("发布失败不影响借阅", func(t *testing.T) {
		f := newFixture(t)
		f.issue = NewIssueBookUseCase(f.issue.lendings, f.issue.txManager, p, clock.Fixed(today))
		l, err := f.issue.Execute(ctx, IssueBookRequest{ReaderID: f.reader.ID, BookID: f.book.ID})
		require.NoError(t, err)
		assert.NotZero(t, l.ID)
	})
}
