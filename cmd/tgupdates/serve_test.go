package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-tg-updates/internal/config"
	httpapi "github.com/tbourn/go-tg-updates/internal/http"
	"github.com/tbourn/go-tg-updates/internal/publish"
	"github.com/tbourn/go-tg-updates/internal/repo"
	"github.com/tbourn/go-tg-updates/internal/updates"
)

func newServeDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:serve_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestNewHTTPServer_ShutdownSignalDoesNotCancelInflightIngest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newServeDB(t)

	lg := zerolog.Nop()
	parent, stop := context.WithCancel(lg.WithContext(context.Background()))
	defer stop()

	var published atomic.Int32
	pub := publish.Func(func(_ context.Context, _ *updates.Context) error {
		published.Add(1)
		// The signal arrives after the update went out but before the receipt is stored.
		stop()
		return nil
	})

	cfg := config.Config{
		Port:        "0",
		APIBasePath: "/api/v1",
		RateRPS:     100,
		RateBurst:   10,
		ReceiptTTL:  time.Hour,
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
	}
	r := gin.New()
	httpapi.RegisterRoutes(r, db, pub, cfg)

	ts := httptest.NewUnstartedServer(r)
	ts.Config = newHTTPServer(parent, cfg, r)
	ts.Start()
	defer ts.Close()

	body := `{"update_id":901,"message":{"message_id":1,"chat":{"id":1,"type":"private"},"text":"bye"}}`
	resp, err := http.Post(ts.URL+"/api/v1/updates", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()

	if parent.Err() == nil {
		t.Fatalf("parent context should be canceled")
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d, want 200", resp.StatusCode)
	}
	if n := published.Load(); n != 1 {
		t.Fatalf("published %d times, want 1", n)
	}
	if _, err := repo.GetReceipt(context.Background(), db, 901, time.Now()); err != nil {
		t.Fatalf("receipt not written after publish: %v", err)
	}
}

func TestNewHTTPServer_UsesConfig(t *testing.T) {
	cfg := config.Config{
		Port:              "8089",
		ReadTimeout:       3 * time.Second,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      4 * time.Second,
		IdleTimeout:       5 * time.Second,
		MaxHeaderBytes:    2048,
	}
	lg := zerolog.New(io.Discard).With().Str("svc", "tgupdates").Logger()
	ctx, cancel := context.WithCancel(lg.WithContext(context.Background()))
	srv := newHTTPServer(ctx, cfg, http.NotFoundHandler())
	cancel()

	if srv.Addr != ":8089" || srv.ReadTimeout != 3*time.Second || srv.WriteTimeout != 4*time.Second ||
		srv.IdleTimeout != 5*time.Second || srv.ReadHeaderTimeout != time.Second || srv.MaxHeaderBytes != 2048 {
		t.Fatalf("unexpected server: %+v", srv)
	}
	base := srv.BaseContext(nil)
	if base.Err() != nil {
		t.Fatalf("base context canceled with its parent: %v", base.Err())
	}
	if zerolog.Ctx(base) != zerolog.Ctx(ctx) {
		t.Fatalf("base context lost the logger")
	}
}
