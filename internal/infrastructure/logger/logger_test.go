package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("writes json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)
		l.Info("hello", zap.String("k", "v"))
		Sync(l)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"hello"`)
		assert.Contains(t, string(data), `"k":"v"`)
	})

	t.Run("tees into extra core", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		l, err := New(&Config{Level: "info", Format: "json", Output: "stderr"}, WithCore(core), WithFields(zap.String("service", "preload")))
		require.NoError(t, err)
		l.Info("teed")
		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "preload", recorded.All()[0].ContextMap()["service"])
	})

	t.Run("unwritable file fails", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestL(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUser(ctx, "user-9", "PROVIDER")

	L(ctx).Info("scoped")

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-9", fields["user_id"])
	assert.Equal(t, "PROVIDER", fields["role"])
	assert.NotContains(t, fields, "trace_id")
}

func TestFromContext_Default(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("logs request and exposes logger to handlers", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("request_id", "req-42")
			c.Next()
		})
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/documents", func(c *gin.Context) {
			L(c.Request.Context()).Info("inside handler")
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents?page=2", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		logs := recorded.All()
		require.Len(t, logs, 2)
		assert.Equal(t, "inside handler", logs[0].Message)
		assert.Equal(t, "req-42", logs[0].ContextMap()["request_id"])
		assert.Equal(t, "HTTP Request", logs[1].Message)
		assert.Equal(t, "page=2", logs[1].ContextMap()["query"])
	})

	t.Run("client errors log as warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, zapcore.WarnLevel, recorded.All()[0].Level)
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "Panic recovered", recorded.All()[0].Message)
}

func TestGormLogger_Trace(t *testing.T) {
	sqlFn := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("record not found is ignored", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, 0)
		gl.Trace(context.Background(), time.Now(), sqlFn, gormlogger.ErrRecordNotFound)
		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("errors are logged", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, 0)
		gl.Trace(context.Background(), time.Now(), sqlFn, errors.New("syntax error"))
		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "SQL Error", recorded.All()[0].Message)
	})

	t.Run("slow queries warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, time.Millisecond)
		gl.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
		require.Equal(t, 1, recorded.Len())
		assert.Equal(t, "Slow SQL", recorded.All()[0].Message)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info, 0).LogMode(gormlogger.Silent)
		gl.Trace(context.Background(), time.Now(), sqlFn, errors.New("x"))
		assert.Equal(t, 0, recorded.Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
