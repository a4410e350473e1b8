package benchmark

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zYagamiBR/hoa-helper/internal/app/routes"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/resources"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/screen"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/transfer"
	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
	"github.com/zYagamiBR/hoa-helper/internal/infrastructure/config"
	"github.com/zYagamiBR/hoa-helper/internal/seed"
)

var today = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// newServer runs the real router on an in-memory database and returns the
// API root.
func newServer(tb testing.TB) string {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(tb, err)
	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(tb, db.AutoMigrate(models.All()...))

	cfg := &config.Config{
		EnvType:        "LOCAL",
		DBDriver:       "sqlite",
		DBPath:         ":memory:",
		CORSOrigin:     "*",
		ReportsDir:     tb.TempDir(),
		CacheTTL:       time.Minute,
		RateLimit:      10000,
		RateLimitBurst: 10000,
	}
	srv := httptest.NewServer(routes.SetupRouter(db, cfg, nil, nil))
	tb.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func seeded(t *testing.T) string {
	t.Helper()
	api := newServer(t)
	_, err := seed.NewLoader(apiclient.New(api), zaptest.NewLogger(t), 1, today).Run(context.Background())
	require.NoError(t, err)
	return api
}

func TestSeedAgainstBackend(t *testing.T) {
	api := newServer(t)
	counts, err := seed.NewLoader(apiclient.New(api), zaptest.NewLogger(t), 3, today).Run(context.Background())
	require.NoError(t, err)

	client := apiclient.New(api)
	for _, c := range counts {
		records, err := client.List(context.Background(), "/"+c.Collection)
		require.NoError(t, err)
		assert.Len(t, records, c.Created, c.Collection)
	}

	payments, err := client.List(context.Background(), "/payments")
	require.NoError(t, err)
	for _, p := range payments {
		assert.NotEmpty(t, p["resident_name"])
	}
}

func TestBillScreenAgainstBackend(t *testing.T) {
	api := newServer(t)
	s := screen.New(resources.Bills, apiclient.New(api))
	t.Cleanup(s.Close)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.OpenCreate())
	for key, value := range map[string]string{
		"title":       "Electricity",
		"vendor_name": "CEMIG",
		"amount":      "450.00",
		"category":    "utilities",
		"frequency":   "monthly",
		"status":      "active",
	} {
		require.NoError(t, s.SetField(key, value))
	}
	require.NoError(t, s.Submit(context.Background()))

	assert.IsType(t, screen.Ready{}, s.State())
	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Electricity", records[0]["title"])
	assert.Equal(t, "CEMIG", records[0]["vendor_name"])
	assert.Equal(t, false, records[0]["auto_pay"])

	require.NoError(t, s.OpenCreate())
	require.NoError(t, s.SetField("title", "Water"))
	require.NoError(t, s.SetField("vendor_name", "COPASA"))
	require.NoError(t, s.SetField("amount", "-3"))
	assert.Error(t, s.Submit(context.Background()))
	form, ok := s.State().(screen.FormOpen)
	require.True(t, ok)
	assert.NotEmpty(t, form.Error)
	assert.Len(t, s.Records(), 1)
}

func TestPaymentScreenAgainstBackend(t *testing.T) {
	api := seeded(t)
	s := screen.New(resources.Payments, apiclient.New(api), screen.WithClock(func() time.Time { return today }))
	t.Cleanup(s.Close)
	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	assert.Len(t, snap.Records, 15)
	require.Len(t, snap.Options["resident_id"], 8)
	assert.Equal(t, "Maria Silva Santos (BL01 AP101)", snap.Options["resident_id"][0].Label)

	require.NoError(t, s.RequestDelete("1"))
	require.NoError(t, s.ConfirmDelete(context.Background()))
	assert.Len(t, s.Records(), 14)
}

func TestTransferAgainstBackend(t *testing.T) {
	api := seeded(t)
	saver := &transfer.MemorySaver{}
	d := transfer.New("vendors", apiclient.New(api), saver, transfer.WithClock(func() time.Time { return today }))
	d.Open()

	require.NoError(t, d.Export(context.Background()))
	data, ok := saver.File("vendors_export_2026-10-16.csv")
	require.True(t, ok)
	assert.Contains(t, string(data), "Elevadores Express")

	require.NoError(t, d.SelectFile("vendors.csv", []byte("name,email,phone,service,address,contact_person\n"+
		"Portaria Digital,contato@portaria.com,,Portaria remota,,\n"+
		"Elevadores Express,,,,,\n")))
	require.NoError(t, d.Import(context.Background()))
	st := d.State()
	require.NotNil(t, st.Result)
	assert.Equal(t, 1, st.Result.ImportedCount)
	assert.Len(t, st.Result.Errors, 1)
}

func TestListUnderLoad(t *testing.T) {
	api := seeded(t)
	runner := NewRunner(api, 8, 200)

	res := runner.Get(context.Background(), "/residents")
	res.Log(zaptest.NewLogger(t))
	assert.Equal(t, 200, res.SuccessCount, res.Errors)
	assert.Equal(t, map[int]int{http.StatusOK: 200}, res.StatusCodes)
	assert.True(t, res.MinTime <= res.AverageTime && res.AverageTime <= res.MaxTime)
}

func TestConcurrentCreates(t *testing.T) {
	api := newServer(t)
	runner := NewRunner(api, 4, 40)

	res := runner.Post(context.Background(), "/residents", func(i int) any {
		return map[string]any{
			"name":      fmt.Sprintf("Resident %02d", i),
			"email":     fmt.Sprintf("resident%02d@example.com", i),
			"building":  1 + i%5,
			"apartment": 101 + i,
		}
	})
	assert.Equal(t, 40, res.SuccessCount, res.Errors)

	records, err := apiclient.New(api).List(context.Background(), "/residents")
	require.NoError(t, err)
	assert.Len(t, records, 40)

	dup := runner.Post(context.Background(), "/residents", func(int) any {
		return map[string]any{"name": "Dup", "email": "resident00@example.com", "building": 1, "apartment": 1}
	})
	assert.Equal(t, 0, dup.SuccessCount)
	assert.Equal(t, 40, dup.StatusCodes[http.StatusBadRequest])
}

func BenchmarkListResidents(b *testing.B) {
	api := newServer(b)
	client := apiclient.New(api)
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		_, err := client.Create(ctx, "/residents", map[string]any{
			"name":      "Resident",
			"email":     fmt.Sprintf("r%d@example.com", i),
			"building":  1,
			"apartment": 100 + i,
		})
		require.NoError(b, err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		records, err := client.List(ctx, "/residents")
		if err != nil || len(records) != 20 {
			b.Fatalf("list: %v (%d records)", err, len(records))
		}
	}
}

func BenchmarkCreateVendor(b *testing.B) {
	api := newServer(b)
	runner := NewRunner(api, 1, 1)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := runner.Post(ctx, "/vendors", func(int) any {
			return map[string]any{"name": strings.Repeat("v", 1+i%50) + fmt.Sprint(i)}
		})
		if res.SuccessCount != 1 {
			b.Fatalf("create vendor: %v", res.StatusCodes)
		}
	}
}
