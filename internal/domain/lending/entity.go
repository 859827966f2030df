package lending

import (
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/reader"
	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// LoanPeriodDays 默认借期(天)
const LoanPeriodDays = 14

// Status 借阅状态,由归还日期推导,不单独存储
type Status int

const (
	StatusOpen   Status = 1 // 未归还(ReturnDate为空)
	StatusClosed Status = 2 // 已归还
)

// String 实现Stringer接口
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Lending 借阅记录(聚合根)
// 1. 引用且只引用一个读者、一本图书
// 2. (读者, 图书, 借出日期)三元组唯一
// 3. 同一本书任意时刻最多一条未归还记录
// 4. 状态只能从Open到Closed,且只能转换一次
type Lending struct {
	ID          uint
	ReaderID    uint       `validate:"required"`
	BookID      uint       `validate:"required"`
	DateOfIssue time.Time  `validate:"not_future"`
	DateOfDue   time.Time
	ReturnDate  *time.Time `validate:"omitempty,not_future,not_before=DateOfIssue"`

	// 查询时加载的关联快照,写入时忽略
	Reader *reader.Reader `validate:"-"`
	Book   *book.Book     `validate:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLending 创建借阅记录(工厂方法)
// 借出日期为今天,应还日期为借出日期+14天
func NewLending(readerID, bookID uint, today time.Time) *Lending {
	l := &Lending{ReaderID: readerID, BookID: bookID}
	l.ApplyDefaults(today)
	return l
}

// ApplyDefaults 填充缺省日期
// 借出日期缺省为今天;应还日期缺省为借出日期+14天
func (l *Lending) ApplyDefaults(today time.Time) {
	if l.DateOfIssue.IsZero() {
		l.DateOfIssue = clock.DateOf(today)
	}
	if l.DateOfDue.IsZero() {
		l.DateOfDue = DueDateFor(l.DateOfIssue)
	}
}

// DueDateFor 根据借出日期计算应还日期
func DueDateFor(issue time.Time) time.Time {
	return clock.DateOf(issue).AddDate(0, 0, LoanPeriodDays)
}

// Status 当前状态
func (l *Lending) Status() Status {
	if l.ReturnDate == nil {
		return StatusOpen
	}
	return StatusClosed
}

// IsOpen 是否未归还
func (l *Lending) IsOpen() bool {
	return l.Status() == StatusOpen
}

// CanTransitionTo 检查是否可以转换到目标状态
// 合法转换只有 Open → Closed
func (l *Lending) CanTransitionTo(target Status) bool {
	return l.Status() == StatusOpen && target == StatusClosed
}

// Return 归还(领域行为),归还日期为今天
func (l *Lending) Return(today time.Time) error {
	if !l.CanTransitionTo(StatusClosed) {
		return ErrAlreadyReturned.WithDetail("lending_id", l.ID)
	}
	d := clock.DateOf(today)
	l.ReturnDate = &d
	return nil
}

// IsOverdue 未归还且应还日期早于asOf
func (l *Lending) IsOverdue(asOf time.Time) bool {
	return l.IsOpen() && l.DateOfDue.Before(clock.DateOf(asOf))
}

// CheckDates 校验日期顺序
// 借出日期不晚于今天;归还日期不晚于今天且不早于借出日期
func (l *Lending) CheckDates(today time.Time) error {
	today = clock.DateOf(today)
	var violations []apperrors.Violation

	if l.DateOfIssue.After(today) {
		violations = append(violations, apperrors.Violation{
			Field: "date_of_issue", Rule: "not_future", Message: "借出日期不能晚于今天",
		})
	}
	if l.ReturnDate != nil {
		if l.ReturnDate.After(today) {
			violations = append(violations, apperrors.Violation{
				Field: "return_date", Rule: "not_future", Message: "归还日期不能晚于今天",
			})
		}
		if l.ReturnDate.Before(l.DateOfIssue) {
			violations = append(violations, apperrors.Violation{
				Field: "return_date", Rule: "not_before", Message: "归还日期不能早于借出日期",
			})
		}
	}

	if len(violations) > 0 {
		return ErrInvalidDates.WithViolations(violations...)
	}
	return nil
}
