package transfer_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/dashboardtest"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/i18n"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/transfer"
)

var today = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func english(key string) string {
	return i18n.Default().Resolve(i18n.Fallback, key, nil)
}

func newDialog(t *testing.T, entity string) (*transfer.Dialog, *dashboardtest.Server, *transfer.MemorySaver) {
	t.Helper()
	srv := dashboardtest.New(t, "residents", "vendors")
	saver := &transfer.MemorySaver{}
	d := transfer.New(entity, apiclient.New(srv.URL()), saver, transfer.WithClock(func() time.Time { return today }))
	d.Open()
	return d, srv, saver
}

func TestOpenStartsOnImportTab(t *testing.T) {
	d, _, _ := newDialog(t, "residents")
	assert.Equal(t, transfer.State{Open: true, Tab: transfer.ImportTab}, d.State())

	require.NoError(t, d.SelectTab(transfer.ExportTab))
	assert.Equal(t, transfer.ExportTab, d.State().Tab)
	assert.Error(t, d.SelectTab("settings"))
}

func TestClosedDialogRejectsActions(t *testing.T) {
	srv := dashboardtest.New(t, "residents")
	d := transfer.New("residents", apiclient.New(srv.URL()), &transfer.MemorySaver{})

	assert.False(t, d.State().Open)
	assert.ErrorIs(t, d.SelectTab(transfer.ExportTab), transfer.ErrNotOpen)
	assert.ErrorIs(t, d.SelectFile("a.csv", nil), transfer.ErrNotOpen)
	assert.ErrorIs(t, d.Export(context.Background()), transfer.ErrNotOpen)
	assert.Empty(t, srv.Requests())
}

func TestSelectFileRequiresCSV(t *testing.T) {
	d, _, _ := newDialog(t, "residents")

	require.NoError(t, d.SelectFile("residents.csv", []byte("name\n")))
	assert.ErrorIs(t, d.SelectFile("residents.xlsx", []byte("x")), transfer.ErrNotCSV)

	st := d.State()
	assert.Equal(t, "residents.csv", st.File)
	assert.Equal(t, english("importExport.selectCSV"), st.Error)

	require.NoError(t, d.SelectFile("RESIDENTS.CSV", []byte("name\n")))
	assert.Empty(t, d.State().Error)
}

func TestImportWithoutFile(t *testing.T) {
	d, srv, _ := newDialog(t, "residents")
	assert.ErrorIs(t, d.Import(context.Background()), transfer.ErrNoFile)
	assert.Equal(t, english("importExport.selectFile"), d.State().Error)
	assert.Empty(t, srv.Requests())
}

func TestImportShowsServerResult(t *testing.T) {
	d, srv, _ := newDialog(t, "vendors")
	require.NoError(t, d.SelectFile("vendors.csv", []byte("name,services\nAcme,Plumbing\nGlobex,Cleaning\n,\n")))

	require.NoError(t, d.Import(context.Background()))
	st := d.State()
	require.NotNil(t, st.Result)
	assert.Equal(t, 2, st.Result.ImportedCount)
	assert.Equal(t, []string{"Row 4: empty row"}, st.Result.Errors)
	assert.Empty(t, st.File)
	assert.False(t, st.Busy)
	assert.Empty(t, st.Error)

	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/import-export/vendors/import"))
	assert.Len(t, srv.Records("vendors"), 2)
}

func TestImportFailureKeepsFile(t *testing.T) {
	d, srv, _ := newDialog(t, "vendors")
	srv.Fail(http.MethodPost, "/api/import-export/vendors/import", http.StatusBadRequest, "CSV file is empty")
	require.NoError(t, d.SelectFile("vendors.csv", []byte("")))

	assert.Error(t, d.Import(context.Background()))
	st := d.State()
	assert.Equal(t, "CSV file is empty", st.Error)
	assert.Equal(t, "vendors.csv", st.File)
	assert.Nil(t, st.Result)
	assert.False(t, st.Busy)

	srv.Fail(http.MethodPost, "/api/import-export/vendors/import", http.StatusInternalServerError, "")
	assert.Error(t, d.Import(context.Background()))
	assert.Equal(t, english("importExport.importFailed"), d.State().Error)
}

func TestNetworkFailure(t *testing.T) {
	d := transfer.New("residents", apiclient.New("http://127.0.0.1:1/api"), &transfer.MemorySaver{})
	d.Open()

	assert.Error(t, d.Export(context.Background()))
	assert.Equal(t, english("importExport.networkError"), d.State().Error)
	assert.False(t, d.State().Busy)
}

func TestBusyRejectsSecondTransfer(t *testing.T) {
	d, srv, _ := newDialog(t, "vendors")
	release := srv.Hold(http.MethodPost, "/api/import-export/vendors/import")
	require.NoError(t, d.SelectFile("vendors.csv", []byte("name\nAcme\n")))

	done := make(chan error, 1)
	go func() { done <- d.Import(context.Background()) }()
	require.True(t, srv.WaitFor(http.MethodPost, "/api/import-export/vendors/import", 1, 2*time.Second))

	assert.True(t, d.State().Busy)
	assert.ErrorIs(t, d.Import(context.Background()), transfer.ErrBusy)
	assert.ErrorIs(t, d.Export(context.Background()), transfer.ErrBusy)

	release()
	require.NoError(t, <-done)
	assert.False(t, d.State().Busy)
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/import-export/vendors/import"))
	assert.Equal(t, 0, srv.Count(http.MethodGet, "/api/import-export/vendors/export"))
}

func TestCloseDropsResultAndResets(t *testing.T) {
	d, srv, _ := newDialog(t, "vendors")
	release := srv.Hold(http.MethodPost, "/api/import-export/vendors/import")
	require.NoError(t, d.SelectTab(transfer.ImportTab))
	require.NoError(t, d.SelectFile("vendors.csv", []byte("name\nAcme\n")))

	done := make(chan error, 1)
	go func() { done <- d.Import(context.Background()) }()
	require.True(t, srv.WaitFor(http.MethodPost, "/api/import-export/vendors/import", 1, 2*time.Second))

	d.Close()
	d.Open()
	release()
	assert.ErrorIs(t, <-done, transfer.ErrNotOpen)
	assert.Equal(t, transfer.State{Open: true, Tab: transfer.ImportTab}, d.State())
}

func TestCloseCancelsRequestInFlight(t *testing.T) {
	d, srv, saver := newDialog(t, "vendors")
	release := srv.Hold(http.MethodGet, "/api/import-export/vendors/export")
	t.Cleanup(release)

	done := make(chan error, 1)
	go func() { done <- d.Export(context.Background()) }()
	require.True(t, srv.WaitFor(http.MethodGet, "/api/import-export/vendors/export", 1, 2*time.Second))

	d.Close()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, transfer.ErrNotOpen)
	case <-time.After(2 * time.Second):
		t.Fatal("export still running after Close")
	}
	_, ok := saver.File("vendors_export_2026-10-16.csv")
	assert.False(t, ok)
}

func TestDownloadTemplate(t *testing.T) {
	d, srv, saver := newDialog(t, "residents")
	srv.Seed("residents", map[string]any{"name": "Ana", "email": "ana@example.com"})

	require.NoError(t, d.DownloadTemplate(context.Background()))
	data, ok := saver.File("residents_import_template.csv")
	require.True(t, ok)
	assert.Equal(t, "id,email,name\n", string(data))
	assert.Equal(t, "residents_import_template.csv", d.State().Saved)
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/api/import-export/residents/template"))
}

func TestDownloadTemplateFailure(t *testing.T) {
	d, srv, saver := newDialog(t, "residents")
	srv.Fail(http.MethodGet, "/api/import-export/residents/template", http.StatusInternalServerError, "")

	assert.Error(t, d.DownloadTemplate(context.Background()))
	assert.Equal(t, english("importExport.templateFailed"), d.State().Error)
	_, ok := saver.File("residents_import_template.csv")
	assert.False(t, ok)
}

func TestExportNamesFileWithToday(t *testing.T) {
	d, srv, saver := newDialog(t, "residents")
	srv.Seed("residents", map[string]any{"name": "Ana"})
	require.NoError(t, d.SelectTab(transfer.ExportTab))

	require.NoError(t, d.Export(context.Background()))
	data, ok := saver.File("residents_export_2026-10-16.csv")
	require.True(t, ok)
	assert.Equal(t, "id,name\n1,Ana\n", string(data))
	assert.Equal(t, "residents_export_2026-10-16.csv", d.ExportName(today))
}

func TestExportFailureUsesServerMessage(t *testing.T) {
	d, srv, _ := newDialog(t, "residents")
	srv.Fail(http.MethodGet, "/api/import-export/residents/export", http.StatusNotFound, "Unknown entity")

	assert.Error(t, d.Export(context.Background()))
	assert.Equal(t, "Unknown entity", d.State().Error)
}

func TestLocalizedMessages(t *testing.T) {
	provider, err := i18n.NewProvider(context.Background(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, provider.SetLanguage(context.Background(), "pt-br"))

	srv := dashboardtest.New(t, "residents")
	d := transfer.New("residents", apiclient.New(srv.URL()), &transfer.MemorySaver{}, transfer.WithTranslator(provider))
	d.Open()
	assert.ErrorIs(t, d.SelectFile("a.txt", nil), transfer.ErrNotCSV)
	assert.Equal(t, provider.T("importExport.selectCSV"), d.State().Error)
	assert.NotEqual(t, english("importExport.selectCSV"), d.State().Error)
}

func TestDirSaver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	saver := transfer.DirSaver{Dir: dir}

	path, err := saver.Save("vendors_export_2026-10-16.csv", []byte("id\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vendors_export_2026-10-16.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id\n", string(data))

	_, err = saver.Save("../escape.csv", nil)
	assert.Error(t, err)
	_, err = saver.Save("", nil)
	assert.Error(t, err)
}
