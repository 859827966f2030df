package reader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiebiao/library/pkg/clock"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/validator"
)

func TestReaderValidation(t *testing.T) {
	today := clock.Date(2024, time.June, 1)
	v := validator.New(clock.Fixed(today))

	tests := []struct {
		name   string
		mutate func(r *Reader)
		rules  map[string]string
	}{
		{"合法", func(r *Reader) {}, nil},
		{"父称可为空", func(r *Reader) { r.MiddleName = "" }, nil},
		{"Ё开头的姓", func(r *Reader) { r.LastName = "Ёлкин" }, nil},
		{"姓为空", func(r *Reader) { r.LastName = "" }, map[string]string{"last_name": "required"}},
		{"名只有一个字母", func(r *Reader) { r.FirstName = "И" }, map[string]string{"first_name": "ru_name"}},
		{"父称拉丁字母", func(r *Reader) { r.MiddleName = "Ivanovich" }, map[string]string{"middle_name": "ru_name"}},
		{"电话9位", func(r *Reader) { r.Phone = "916123456" }, map[string]string{"phone": "phone10"}},
		{"邮箱格式", func(r *Reader) { r.Email = "ivan" }, map[string]string{"email": "email"}},
		{"出生日期是今天", func(r *Reader) { r.DateOfBirth = today }, map[string]string{"date_of_birth": "past_date"}},
		{"读者证号过长", func(r *Reader) { r.ReadersTicket = "123456789012345678901" }, map[string]string{"readers_ticket": "max"}},
		{"多处错误", func(r *Reader) { r.Phone = ""; r.FirstName = "ivan" }, map[string]string{"phone": "required", "first_name": "ru_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reader{
				ReadersTicket: "A-001",
				LastName:      "Петров",
				FirstName:     "Иван",
				MiddleName:    "Сергеевич",
				DateOfBirth:   clock.Date(1990, time.May, 4),
				Email:         "ivan@example.com",
				Phone:         "9161234567",
			}
			tt.mutate(r)

			err := v.Struct(r)
			if tt.rules == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			got := map[string]string{}
			for _, vl := range apperrors.GetAppError(err).Violations {
				got[vl.Field] = vl.Rule
			}
			assert.Equal(t, tt.rules, got)
		})
	}
}
