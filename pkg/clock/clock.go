// Package clock 提供可注入的时间源
//
// 所有依赖"今天"的业务规则（借阅日期默认值、逾期查询、出版年份校验）
// 都从Clock读取时间，测试中使用Fixed固定日期。
package clock

import "time"

// Clock 时间源
type Clock interface {
	Now() time.Time
}

// System 系统时钟
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Fixed 固定时钟（用于测试）
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Func 函数适配器
type Func func() time.Time

// Now 实现Clock
func (f Func) Now() time.Time { return f() }

// Today 返回时钟当前日期（UTC零点）
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf 截断为日历日期，保留原时区下的年月日，统一为UTC零点
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date 构造UTC零点日期
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
