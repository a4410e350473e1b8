package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
)

var (
	// ErrUnsupportedTemplate is returned for unknown report templates
	ErrUnsupportedTemplate = errors.New("unsupported report template")
	// ErrReportFileMissing is returned when a generation's file is gone
	ErrReportFileMissing = errors.New("report file not found")
)

const dashboardCacheKey = "reports:dashboard"

// ReportTemplate describes one report that can be generated
type ReportTemplate struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Parameters  []string `json:"parameters"`
}

var reportTemplates = []ReportTemplate{
	{Name: "financial_monthly", DisplayName: "Monthly Financial Report", Category: "financial",
		Description: "Monthly revenue, expenses and expenses by category", Parameters: []string{"year", "month"}},
	{Name: "transparency_monthly", DisplayName: "Monthly Transparency Report", Category: "transparency",
		Description: "Monthly revenue, expenses, maintenance and payroll", Parameters: []string{"year", "month"}},
	{Name: "transparency_quarterly", DisplayName: "Quarterly Transparency Report", Category: "transparency",
		Description: "Quarterly revenue, expenses, maintenance and payroll", Parameters: []string{"year", "quarter"}},
	{Name: "annual_comparative", DisplayName: "Annual Comparative Report", Category: "comparative",
		Description: "Five-year comparison of revenue and expenses", Parameters: []string{"year"}},
}

// GenerateRequest selects a template and its period
type GenerateRequest struct {
	TemplateName string `json:"template_name" binding:"required"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Quarter      int    `json:"quarter"`
	GeneratedBy  string `json:"generated_by"`
}

// ReportDashboard summarizes the generation history
type ReportDashboard struct {
	TotalGenerations  int64                     `json:"total_generations"`
	ByTemplate        map[string]int64          `json:"by_template"`
	RecentGenerations []models.ReportGeneration `json:"recent_generations"`
}

// InterfaceReportService defines report generation and history
type InterfaceReportService interface {
	Templates() []ReportTemplate
	Generate(ctx context.Context, req GenerateRequest) (*models.ReportGeneration, error)
	Generations(ctx context.Context) ([]models.ReportGeneration, error)
	Generation(ctx context.Context, id uint) (*models.ReportGeneration, error)
	Dashboard(ctx context.Context) (*ReportDashboard, error)
}

// ReportService writes xlsx reports from the stored records
type ReportService struct {
	DB    *gorm.DB
	Dir   string
	Cache InterfaceRedisService // optional
	Now   func() time.Time
	log   *zap.Logger
}

// NewReportService creates the service writing into dir
func NewReportService(db *gorm.DB, dir string, cache InterfaceRedisService, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{DB: db, Dir: dir, Cache: cache, Now: time.Now, log: log}
}

type period struct {
	start, end time.Time // end is exclusive
	label      string
}

func monthPeriod(year, month int) period {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return period{start: start, end: start.AddDate(0, 1, 0), label: fmt.Sprintf("%04d-%02d", year, month)}
}

func quarterPeriod(year, quarter int) period {
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	return period{start: start, end: start.AddDate(0, 3, 0), label: fmt.Sprintf("%04d-Q%d", year, quarter)}
}

func yearPeriod(year int) period {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return period{start: start, end: start.AddDate(1, 0, 0), label: fmt.Sprintf("%04d", year)}
}

// 1 Templates lists the available templates
func (s *ReportService) Templates() []ReportTemplate {
	return reportTemplates
}

// 2 Generate builds the workbook, stores it in Dir and records the generation
func (s *ReportService) Generate(ctx context.Context, req GenerateRequest) (*models.ReportGeneration, error) {
	now := s.Now().UTC()
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Quarter == 0 {
		req.Quarter = (req.Month-1)/3 + 1
	}
	if req.Month < 1 || req.Month > 12 {
		return nil, &ValidationError{Message: "month must be between 1 and 12"}
	}
	if req.Quarter < 1 || req.Quarter > 4 {
		return nil, &ValidationError{Message: "quarter must be between 1 and 4"}
	}
	if req.GeneratedBy == "" {
		req.GeneratedBy = "user"
	}

	var (
		p     period
		sheet *reportSheet
		err   error
	)
	switch req.TemplateName {
	case "financial_monthly":
		p = monthPeriod(req.Year, req.Month)
		sheet, err = s.financialSheet(ctx, "Monthly Financial Report", p)
	case "transparency_monthly":
		p = monthPeriod(req.Year, req.Month)
		sheet, err = s.transparencySheet(ctx, "Monthly Transparency Report", p)
	case "transparency_quarterly":
		p = quarterPeriod(req.Year, req.Quarter)
		sheet, err = s.transparencySheet(ctx, "Quarterly Transparency Report", p)
	case "annual_comparative":
		p = yearPeriod(req.Year)
		sheet, err = s.annualSheet(ctx, req.Year)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTemplate, req.TemplateName)
	}
	if err != nil {
		return nil, err
	}
	sheet.generatedAt = now

	fileName := fmt.Sprintf("%s_%s_%s.xlsx", req.TemplateName, p.label, uuid.NewString()[:8])
	path := filepath.Join(s.Dir, fileName)
	size, err := writeWorkbook(path, sheet)
	if err != nil {
		return nil, err
	}

	generation := &models.ReportGeneration{
		TemplateName: req.TemplateName,
		Year:         req.Year,
		GeneratedBy:  req.GeneratedBy,
		GeneratedAt:  now,
		PeriodStart:  models.NewDate(p.start),
		PeriodEnd:    models.NewDate(p.end.AddDate(0, 0, -1)),
		FileName:     fileName,
		FilePath:     path,
		FileSize:     size,
		Status:       "generated",
	}
	switch req.TemplateName {
	case "financial_monthly", "transparency_monthly":
		generation.Month = req.Month
	case "transparency_quarterly":
		generation.Quarter = req.Quarter
	}
	if err := s.DB.WithContext(ctx).Create(generation).Error; err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, dashboardCacheKey); err != nil {
			s.log.Warn("report dashboard cache invalidation failed", zap.Error(err))
		}
	}
	s.log.Info("report generated",
		zap.String("template", req.TemplateName),
		zap.String("file", fileName),
		zap.Int64("size", size))
	return generation, nil
}

// 3 Generations lists the history, newest first
func (s *ReportService) Generations(ctx context.Context) ([]models.ReportGeneration, error) {
	generations := make([]models.ReportGeneration, 0)
	err := s.DB.WithContext(ctx).Order("generated_at desc, id desc").Find(&generations).Error
	return generations, err
}

// 4 Generation returns one generation whose file still exists
func (s *ReportService) Generation(ctx context.Context, id uint) (*models.ReportGeneration, error) {
	var generation models.ReportGeneration
	if err := s.DB.WithContext(ctx).First(&generation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Label: "report", ID: id}
		}
		return nil, err
	}
	if _, err := os.Stat(generation.FilePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReportFileMissing, generation.FileName)
	}
	return &generation, nil
}

// 5 Dashboard summarizes the history, cached for a minute when Redis is available
func (s *ReportService) Dashboard(ctx context.Context) (*ReportDashboard, error) {
	if s.Cache != nil {
		var cached ReportDashboard
		err := s.Cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("report dashboard cache read failed", zap.Error(err))
		}
	}

	dashboard := &ReportDashboard{ByTemplate: map[string]int64{}}
	db := s.DB.WithContext(ctx)
	if err := db.Model(&models.ReportGeneration{}).Count(&dashboard.TotalGenerations).Error; err != nil {
		return nil, err
	}
	var counts []struct {
		TemplateName string
		Total        int64
	}
	if err := db.Model(&models.ReportGeneration{}).
		Select("template_name, count(*) as total").
		Group("template_name").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		dashboard.ByTemplate[c.TemplateName] = c.Total
	}
	dashboard.RecentGenerations = make([]models.ReportGeneration, 0)
	if err := db.Order("generated_at desc, id desc").Limit(10).Find(&dashboard.RecentGenerations).Error; err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, dashboardCacheKey, dashboard, time.Minute); err != nil {
			s.log.Warn("report dashboard cache write failed", zap.Error(err))
		}
	}
	return dashboard, nil
}

type reportRow struct {
	label string
	value interface{}
}

type reportSection struct {
	title string
	rows  []reportRow
}

type reportSheet struct {
	title       string
	subtitle    string
	generatedAt time.Time
	sections    []reportSection
}

func (s *ReportService) sumAmounts(ctx context.Context, model interface{}, column string, p period) (decimal.Decimal, int, error) {
	var amounts []decimal.Decimal
	err := s.DB.WithContext(ctx).Model(model).
		Where(column+" >= ? AND "+column+" < ?", p.start, p.end).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return decimal.Sum(decimal.Zero, amounts...), len(amounts), nil
}

func (s *ReportService) financialSheet(ctx context.Context, title string, p period) (*reportSheet, error) {
	revenue, paymentCount, err := s.sumAmounts(ctx, &models.Payment{}, "payment_date", p)
	if err != nil {
		return nil, err
	}

	var invoices []struct {
		Category string
		Amount   decimal.Decimal
	}
	if err := s.DB.WithContext(ctx).Model(&models.Invoice{}).
		Select("category, amount").
		Where("invoice_date >= ? AND invoice_date < ?", p.start, p.end).
		Scan(&invoices).Error; err != nil {
		return nil, err
	}
	expenses := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	for _, inv := range invoices {
		category := inv.Category
		if category == "" {
			category = "Other"
		}
		byCategory[category] = byCategory[category].Add(inv.Amount)
		expenses = expenses.Add(inv.Amount)
	}

	var residents, vendors int64
	if err := s.DB.WithContext(ctx).Model(&models.Resident{}).Count(&residents).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&models.Vendor{}).Count(&vendors).Error; err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	categoryRows := make([]reportRow, 0, len(categories))
	for _, c := range categories {
		categoryRows = append(categoryRows, reportRow{label: c, value: money(byCategory[c])})
	}
	if len(categoryRows) == 0 {
		categoryRows = append(categoryRows, reportRow{label: "No expenses recorded", value: 0.0})
	}

	return &reportSheet{
		title:    title,
		subtitle: p.label,
		sections: []reportSection{
			{title: "Financial summary", rows: []reportRow{
				{"Revenue", money(revenue)},
				{"Expenses", money(expenses)},
				{"Balance", money(revenue.Sub(expenses))},
				{"Payments", paymentCount},
				{"Invoices", len(invoices)},
			}},
			{title: "Expenses by category", rows: categoryRows},
			{title: "General information", rows: []reportRow{
				{"Residents", residents},
				{"Vendors", vendors},
			}},
		},
	}, nil
}

func (s *ReportService) transparencySheet(ctx context.Context, title string, p period) (*reportSheet, error) {
	revenue, _, err := s.sumAmounts(ctx, &models.Payment{}, "payment_date", p)
	if err != nil {
		return nil, err
	}
	expenses, _, err := s.sumAmounts(ctx, &models.Invoice{}, "invoice_date", p)
	if err != nil {
		return nil, err
	}
	var maintenance int64
	if err := s.DB.WithContext(ctx).Model(&models.MaintenanceRequest{}).
		Where("created_at >= ? AND created_at < ?", p.start, p.end).
		Count(&maintenance).Error; err != nil {
		return nil, err
	}
	var salaries []decimal.NullDecimal
	if err := s.DB.WithContext(ctx).Model(&models.Associate{}).
		Where("status = ?", "Active").
		Pluck("monthly_salary", &salaries).Error; err != nil {
		return nil, err
	}
	payroll := decimal.Zero
	for _, salary := range salaries {
		if salary.Valid {
			payroll = payroll.Add(salary.Decimal)
		}
	}

	return &reportSheet{
		title:    title,
		subtitle: p.label,
		sections: []reportSection{
			{title: "Financial summary", rows: []reportRow{
				{"Revenue", money(revenue)},
				{"Expenses", money(expenses)},
				{"Balance", money(revenue.Sub(expenses))},
			}},
			{title: "Operations", rows: []reportRow{
				{"Maintenance requests", maintenance},
				{"Active employees", len(salaries)},
				{"Monthly payroll", money(payroll)},
			}},
		},
	}, nil
}

func (s *ReportService) annualSheet(ctx context.Context, year int) (*reportSheet, error) {
	rows := make([]reportRow, 0, 5)
	for y := year - 4; y <= year; y++ {
		p := yearPeriod(y)
		revenue, _, err := s.sumAmounts(ctx, &models.Payment{}, "payment_date", p)
		if err != nil {
			return nil, err
		}
		expenses, _, err := s.sumAmounts(ctx, &models.Invoice{}, "invoice_date", p)
		if err != nil {
			return nil, err
		}
		rows = append(rows, reportRow{
			label: fmt.Sprintf("%d", y),
			value: []float64{money(revenue), money(expenses), money(revenue.Sub(expenses))},
		})
	}
	return &reportSheet{
		title:    "Annual Comparative Report",
		subtitle: fmt.Sprintf("%d-%d", year-4, year),
		sections: []reportSection{{title: "Year / Revenue / Expenses / Balance", rows: rows}},
	}, nil
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// writeWorkbook saves sheet to path and returns the file size
func writeWorkbook(path string, sheet *reportSheet) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("create reports dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const name = "Report"
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return 0, fmt.Errorf("rename sheet: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return 0, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("create header style: %w", err)
	}

	set := func(col, row int, value interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(name, cell, value)
	}

	row := 1
	if err := set(1, row, sheet.title); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(name, "A1", "A1", titleStyle); err != nil {
		return 0, err
	}
	row++
	if err := set(1, row, sheet.subtitle); err != nil {
		return 0, err
	}
	row++
	if err := set(1, row, "Generated at "+sheet.generatedAt.Format("2006-01-02 15:04")); err != nil {
		return 0, err
	}
	row += 2

	for _, section := range sheet.sections {
		if err := set(1, row, section.title); err != nil {
			return 0, err
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellStyle(name, cell, cell, headerStyle); err != nil {
			return 0, err
		}
		row++
		for _, r := range section.rows {
			if err := set(1, row, r.label); err != nil {
				return 0, err
			}
			values, ok := r.value.([]float64)
			if !ok {
				if err := set(2, row, r.value); err != nil {
					return 0, err
				}
			}
			for i, v := range values {
				if err := set(2+i, row, v); err != nil {
					return 0, err
				}
			}
			row++
		}
		row++
	}
	if err := f.SetColWidth(name, "A", "A", 32); err != nil {
		return 0, err
	}
	if err := f.SetColWidth(name, "B", "D", 16); err != nil {
		return 0, err
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save workbook: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
