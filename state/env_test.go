package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"imgdim/config"
	"imgdim/resolve"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}

	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_PathContext(t *testing.T) {
	env := &LocalEnv{}
	if got := env.PathContext(); got != (resolve.PathContext{}) {
		t.Errorf("PathContext() without configuration = %+v, want zero value", got)
	}

	env.Cfg = &config.Config{
		Version: 1,
		Site: config.SiteConfig{
			RootPath:    "/srv/shop/",
			BaseURL:     "https://shop.example.com/",
			UseRewrites: true,
		},
	}
	got := env.PathContext()
	if got.RootPath != "/srv/shop/" || got.BaseURL != "https://shop.example.com/" || !got.UseRewrites {
		t.Errorf("PathContext() = %+v, does not reflect configuration", got)
	}

	// configuration changes are visible immediately
	env.Cfg.Site.RootPath = "/srv/other/"
	if got := env.PathContext().RootPath; got != "/srv/other/" {
		t.Errorf("PathContext().RootPath = %q, want %q", got, "/srv/other/")
	}

	var _ resolve.ContextSource = env
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Error("Expected restoreStdLog to be set")
		}
		env.RestoreStdLog()
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}

		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		// Should not panic
		env.RestoreStdLog()
	})
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	env := &LocalEnv{
		Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
	}

	for i := range 3 {
		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Errorf("Iteration %d: restoreStdLog not set", i)
		}
		env.RestoreStdLog()
	}
}
