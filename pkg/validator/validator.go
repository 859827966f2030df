// Package validator 基于go-playground/validator的实体字段校验
//
// 除内置规则外注册了以下标签：
//
//	ru_name     姓名：大写西里尔字母开头，后接2-21个小写字母或连字符
//	ru_words    作者：一个或多个首字母大写的西里尔单词，以空格分隔
//	ru_text     体裁：只包含西里尔字母和空格
//	phone10     电话：恰好10位数字
//	pub_year    出版年份：4位数字且不晚于今年
//	past_date   日期早于今天
//	not_future  日期不晚于今天
//	not_before  日期不早于同结构体的另一个日期字段（参数为字段名）
//
// 依赖"今天"的规则从注入的Clock读取时间。
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ruNameRegex  = regexp.MustCompile(`^[А-ЯЁ][а-яё-]{1,20}$`)
	ruWordsRegex = regexp.MustCompile(`^[А-ЯЁ][а-яё]*( [А-ЯЁ][а-яё]*)*$`)
	ruTextRegex  = regexp.MustCompile(`^[А-ЯЁа-яё ]*$`)
	phoneRegex   = regexp.MustCompile(`^\d{10}$`)
)

var messages = map[string]string{
	"required":   "不能为空",
	"max":        "长度不能超过%s",
	"min":        "长度不能少于%s",
	"email":      "邮箱格式不正确",
	"gt":         "必须大于%s",
	"ru_name":    "必须以大写西里尔字母开头，只能包含西里尔字母和连字符，长度2-21",
	"ru_words":   "每个单词必须以大写西里尔字母开头，只能包含西里尔字母",
	"ru_text":    "只能包含西里尔字母和空格",
	"phone10":    "必须为10位数字",
	"pub_year":   "必须为4位数字且不能晚于当前年份",
	"past_date":  "必须早于今天",
	"not_future": "不能晚于今天",
	"not_before": "不能早于%s",
}

// Validator 实体校验器
type Validator struct {
	validate *validator.Validate
	clock    clock.Clock
}

// New 创建校验器
func New(c clock.Clock) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		clock:    c,
	}

	// 违规字段使用json名称；领域实体没有json标签时转为snake_case
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return snakeCase(fld.Name)
		}
		return name
	})

	v.mustRegister("ru_name", regexRule(ruNameRegex))
	v.mustRegister("ru_words", regexRule(ruWordsRegex))
	v.mustRegister("ru_text", regexRule(ruTextRegex))
	v.mustRegister("phone10", regexRule(phoneRegex))
	v.mustRegister("pub_year", v.publicationYear)
	v.mustRegister("past_date", v.pastDate)
	v.mustRegister("not_future", v.notFuture)
	v.mustRegister("not_before", notBefore)

	return v
}

func (v *Validator) mustRegister(tag string, fn validator.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("注册校验规则%s失败: %v", tag, err))
	}
}

// Struct 校验结构体，失败时返回带违规列表的ValidationError
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.Wrap(err, "参数校验异常")
	}
	return apperrors.NewValidation(Violations(ve))
}

// Violations 将validator错误转换为违规列表
func Violations(ve validator.ValidationErrors) []apperrors.Violation {
	out := make([]apperrors.Violation, 0, len(ve))
	for _, fe := range ve {
		out = append(out, apperrors.Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	tmpl, ok := messages[fe.Tag()]
	if !ok {
		return "格式不正确"
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}

func regexRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return re.MatchString(fl.Field().String())
	}
}

func (v *Validator) publicationYear(fl validator.FieldLevel) bool {
	var year int64
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		year = fl.Field().Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		year = int64(fl.Field().Uint())
	default:
		return false
	}
	return year >= 1000 && year <= 9999 && year <= int64(v.clock.Now().Year())
}

func (v *Validator) pastDate(fl validator.FieldLevel) bool {
	t, ok := timeOf(fl.Field())
	if !ok {
		return false
	}
	return clock.DateOf(t).Before(clock.Today(v.clock))
}

func (v *Validator) notFuture(fl validator.FieldLevel) bool {
	t, ok := timeOf(fl.Field())
	if !ok {
		return false
	}
	if t.IsZero() {
		return true
	}
	return !clock.DateOf(t).After(clock.Today(v.clock))
}

func notBefore(fl validator.FieldLevel) bool {
	t, ok := timeOf(fl.Field())
	if !ok {
		return false
	}
	parent := fl.Parent()
	for parent.Kind() == reflect.Ptr {
		if parent.IsNil() {
			return true
		}
		parent = parent.Elem()
	}
	other, ok := timeOf(parent.FieldByName(fl.Param()))
	if !ok || other.IsZero() || t.IsZero() {
		return true
	}
	return !clock.DateOf(t).Before(clock.DateOf(other))
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func timeOf(val reflect.Value) (time.Time, bool) {
	for val.IsValid() && val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return time.Time{}, true
		}
		val = val.Elem()
	}
	if !val.IsValid() {
		return time.Time{}, false
	}
	t, ok := val.Interface().(time.Time)
	return t, ok
}
