package services

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
)

func newTransfer(t *testing.T) (InterfaceTransferService, map[string]InterfaceResourceService) {
	t.Helper()
	resources := testResources(newTestDB(t))
	return NewTransferService(DefaultSchemas(), locator(resources), nil), resources
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestTemplateIsHeaderOnly(t *testing.T) {
	svc, _ := newTransfer(t)

	data, err := svc.Template("residents")
	require.NoError(t, err)
	rows := readCSV(t, data)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"name", "email", "phone", "building", "apartment"}, rows[0])

	_, err = svc.Template("parking")
	assert.True(t, errors.Is(err, ErrUnknownEntity))
}

func TestEveryResourceHasASchema(t *testing.T) {
	names := map[string]bool{}
	for _, s := range DefaultSchemas() {
		names[s.Entity] = true
		assert.NotEmpty(t, s.Import, s.Entity)
		assert.Equal(t, "id", s.Export[0], s.Entity)
	}
	for _, name := range []string{"residents", "vendors", "associates", "payments", "invoices",
		"bills", "maintenance", "events", "violations"} {
		assert.True(t, names[name], name)
	}
}

func TestImportCollectsRowErrors(t *testing.T) {
	svc, _ := newTransfer(t)
	input := "\ufeffname,email,phone,building,apartment\n" +
		"Ana,ana@example.com,3199990000,1,101\n" +
		"Bruno,not-an-email,,2,202\n" +
		",,,,\n" +
		"Carla,carla@example.com,,x,303\n" +
		"Ana again,ANA@example.com,,1,102\n" +
		"Davi,davi@example.com,,4,404\n"

	result, err := svc.Import(context.Background(), "residents", strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.ImportedCount)
	require.Len(t, result.Errors, 3)
	assert.True(t, strings.HasPrefix(result.Errors[0], "Row 3: "), result.Errors[0])
	assert.Contains(t, result.Errors[0], "email must be a valid email address")
	assert.Equal(t, "Row 5: building must be a whole number", result.Errors[1])
	assert.Equal(t, "Row 6: email ANA@example.com already exists", result.Errors[2])
}

func TestImportMissingColumns(t *testing.T) {
	svc, _ := newTransfer(t)

	_, err := svc.Import(context.Background(), "residents", strings.NewReader("name,phone\nAna,1\n"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "missing required columns: email, building, apartment", verr.Message)

	_, err = svc.Import(context.Background(), "residents", strings.NewReader(""))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CSV file is empty", verr.Message)
}

func TestImportResolvesLookups(t *testing.T) {
	svc, resources := newTransfer(t)
	ctx := context.Background()

	_, err := resources["vendors"].Create(ctx, []byte(`{"name":"CleanCo"}`))
	require.NoError(t, err)

	input := "invoice_number,vendor_name,amount,reason,authorized_by,invoice_date\n" +
		"NF-1,cleanco,\"1.200,50\",Monthly cleaning,Sindico,2024-03-10\n" +
		"NF-2,Ghost Ltd,10,Repair,Sindico,2024-03-11\n"
	result, err := svc.Import(ctx, "invoices", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, result.ImportedCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "Row 2: amount must be a number", result.Errors[0])
	assert.Equal(t, `Row 3: vendor_name "Ghost Ltd" not found`, result.Errors[1])

	input = "invoice_number,vendor_name,amount,reason,authorized_by,invoice_date\n" +
		"NF-1,cleanco,\"1200,50\",Monthly cleaning,Sindico,2024-03-10\n"
	result, err = svc.Import(ctx, "invoices", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	assert.Empty(t, result.Errors)

	list, err := resources["invoices"].List(ctx)
	require.NoError(t, err)
	invoices := list.([]models.Invoice)
	require.Len(t, invoices, 1)
	assert.Equal(t, "CleanCo", invoices[0].VendorName)
	assert.Equal(t, "2024-03-10", invoices[0].InvoiceDate.String())
	assert.Equal(t, "1200.5", invoices[0].Amount.String())
}

func TestExportRoundTrip(t *testing.T) {
	svc, resources := newTransfer(t)
	ctx := context.Background()

	input := "title,vendor_name,amount,category,frequency,due_day,auto_pay\n" +
		"Electricity,CEMIG,450.00,utilities,monthly,10,sim\n" +
		"Insurance,Porto,1200,insurance,yearly,,no\n"
	result, err := svc.Import(ctx, "bills", strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, result.ImportedCount, result.Errors)

	data, err := svc.Export(ctx, "bills")
	require.NoError(t, err)
	rows := readCSV(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "title", "vendor_name", "amount", "category", "frequency", "due_day",
		"status", "auto_pay", "payment_method"}, rows[0])
	assert.Equal(t, "Electricity", rows[1][1])
	assert.Equal(t, "active", rows[1][7])
	assert.Equal(t, "true", rows[1][8])
	assert.Equal(t, "false", rows[2][8])

	// the same rows a second time are all duplicates
	again, err := svc.Import(ctx, "bills", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, again.ImportedCount)
	assert.Len(t, again.Errors, 2)

	list, err := resources["bills"].List(ctx)
	require.NoError(t, err)
	assert.Len(t, list.([]models.Bill), 2)
}

func TestExportFormatsDates(t *testing.T) {
	svc, resources := newTransfer(t)
	ctx := context.Background()

	_, err := resources["residents"].Create(ctx, []byte(`{"name":"Ana","email":"ana@example.com","building":1,"apartment":101}`))
	require.NoError(t, err)
	_, err = resources["payments"].Create(ctx, []byte(`{"resident_id":1,"amount":"300","payment_type":"monthly_fee","payment_date":"2024-02-01T10:30:00Z"}`))
	require.NoError(t, err)

	data, err := svc.Export(ctx, "payments")
	require.NoError(t, err)
	rows := readCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "1", rows[1][2])
	assert.Equal(t, "101", rows[1][3])
	assert.Equal(t, "2024-02-01", rows[1][7])
}
