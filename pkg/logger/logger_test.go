package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json写入文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(Config{Level: "info", Format: "json", Output: path})
		require.NoError(t, err)

		log.Debug("不输出")
		log.Info("借出图书")
		require.NoError(t, log.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"借出图书"`)
		assert.NotContains(t, string(data), "不输出")
	})

	t.Run("无效级别", func(t *testing.T) {
		_, err := New(Config{Level: "verbose"})
		assert.Error(t, err)
	})

	t.Run("无效格式", func(t *testing.T) {
		_, err := New(Config{Level: "info", Format: "xml"})
		assert.Error(t, err)
	})
}

func TestCtx(t *testing.T) {
	l, err := New(Config{Level: "debug"})
	require.NoError(t, err)

	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()), "没有时返回全局Logger")
}
