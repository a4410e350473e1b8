package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func seedFinances(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	resources := testResources(db)

	_, err := resources["residents"].Create(ctx, []byte(`{"name":"Ana","email":"ana@example.com","building":1,"apartment":101}`))
	require.NoError(t, err)
	_, err = resources["vendors"].Create(ctx, []byte(`{"name":"CleanCo"}`))
	require.NoError(t, err)

	for _, body := range []string{
		`{"resident_id":1,"amount":"300","payment_type":"monthly_fee","payment_date":"2024-03-05T10:00:00Z"}`,
		`{"resident_id":1,"amount":"350.50","payment_type":"monthly_fee","payment_date":"2024-03-31T23:00:00Z"}`,
		`{"resident_id":1,"amount":"200","payment_type":"monthly_fee","payment_date":"2024-04-01T00:00:00Z"}`,
	} {
		_, err := resources["payments"].Create(ctx, []byte(body))
		require.NoError(t, err)
	}
	for _, body := range []string{
		`{"invoice_number":"NF-1","vendor_id":1,"amount":"100","reason":"Cleaning","category":"cleaning","authorized_by":"Sindico","invoice_date":"2024-03-10"}`,
		`{"invoice_number":"NF-2","vendor_id":1,"amount":"50","reason":"Misc","authorized_by":"Sindico","invoice_date":"2024-03-20"}`,
	} {
		_, err := resources["invoices"].Create(ctx, []byte(body))
		require.NoError(t, err)
	}
}

func newReportService(t *testing.T, cache InterfaceRedisService) (*ReportService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewReportService(db, t.TempDir(), cache, nil)
	svc.Now = func() time.Time { return time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC) }
	return svc, db
}

func TestGenerateFinancialMonthly(t *testing.T) {
	svc, db := newReportService(t, nil)
	seedFinances(t, db)

	generation, err := svc.Generate(context.Background(), GenerateRequest{TemplateName: "financial_monthly", Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, "generated", generation.Status)
	assert.Equal(t, 3, generation.Month)
	assert.Equal(t, 0, generation.Quarter)
	assert.Equal(t, "user", generation.GeneratedBy)
	assert.Equal(t, "2024-03-01", generation.PeriodStart.String())
	assert.Equal(t, "2024-03-31", generation.PeriodEnd.String())
	assert.True(t, strings.HasPrefix(generation.FileName, "financial_monthly_2024-03_"))
	assert.Equal(t, ".xlsx", filepath.Ext(generation.FileName))
	assert.Positive(t, generation.FileSize)

	f, err := excelize.OpenFile(generation.FilePath)
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue("Report", ref)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Monthly Financial Report", cell("A1"))
	assert.Equal(t, "2024-03", cell("A2"))
	assert.Equal(t, "Revenue", cell("A6"))
	assert.Equal(t, "650.5", cell("B6"))
	assert.Equal(t, "150", cell("B7"))
	assert.Equal(t, "500.5", cell("B8"))
	assert.Equal(t, "2", cell("B9"))
	assert.Equal(t, "Expenses by category", cell("A12"))
	assert.Equal(t, "Other", cell("A13"))
	assert.Equal(t, "50", cell("B13"))
	assert.Equal(t, "cleaning", cell("A14"))
}

func TestGenerateDefaultsToCurrentPeriod(t *testing.T) {
	svc, _ := newReportService(t, nil)

	generation, err := svc.Generate(context.Background(), GenerateRequest{TemplateName: "transparency_quarterly"})
	require.NoError(t, err)
	assert.Equal(t, 2024, generation.Year)
	assert.Equal(t, 2, generation.Quarter)
	assert.Equal(t, "2024-04-01", generation.PeriodStart.String())
	assert.Equal(t, "2024-06-30", generation.PeriodEnd.String())

	annual, err := svc.Generate(context.Background(), GenerateRequest{TemplateName: "annual_comparative", Year: 2024})
	require.NoError(t, err)
	f, err := excelize.OpenFile(annual.FilePath)
	require.NoError(t, err)
	defer f.Close()
	first, err := f.GetCellValue("Report", "A6")
	require.NoError(t, err)
	assert.Equal(t, "2020", first)
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	svc, _ := newReportService(t, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateRequest{TemplateName: "weekly_gossip"})
	assert.True(t, errors.Is(err, ErrUnsupportedTemplate))

	_, err = svc.Generate(ctx, GenerateRequest{TemplateName: "financial_monthly", Month: 13})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Generate(ctx, GenerateRequest{TemplateName: "transparency_quarterly", Quarter: 5})
	assert.ErrorAs(t, err, &verr)
}

func TestGenerationRequiresFile(t *testing.T) {
	svc, _ := newReportService(t, nil)
	ctx := context.Background()

	generation, err := svc.Generate(ctx, GenerateRequest{TemplateName: "financial_monthly"})
	require.NoError(t, err)

	got, err := svc.Generation(ctx, generation.ID)
	require.NoError(t, err)
	assert.Equal(t, generation.FileName, got.FileName)

	require.NoError(t, os.Remove(generation.FilePath))
	_, err = svc.Generation(ctx, generation.ID)
	assert.True(t, errors.Is(err, ErrReportFileMissing))

	_, err = svc.Generation(ctx, 404)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDashboardIsCachedAndInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, _ := newReportService(t, NewRedisService(client, "hoa:"))
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateRequest{TemplateName: "financial_monthly"})
	require.NoError(t, err)
	_, err = svc.Generate(ctx, GenerateRequest{TemplateName: "transparency_monthly"})
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dashboard.TotalGenerations)
	assert.Equal(t, int64(1), dashboard.ByTemplate["financial_monthly"])
	assert.Len(t, dashboard.RecentGenerations, 2)
	assert.True(t, mr.Exists("hoa:reports:dashboard"))

	_, err = svc.Generate(ctx, GenerateRequest{TemplateName: "financial_monthly"})
	require.NoError(t, err)
	assert.False(t, mr.Exists("hoa:reports:dashboard"))

	dashboard, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), dashboard.TotalGenerations)

	history, err := svc.Generations(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.GreaterOrEqual(t, history[0].ID, history[2].ID)
}
