// Package transfer implements the CSV import/export dialog shared by every
// entity screen: template download, file upload for bulk create, and full
// collection export.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/i18n"
)

var (
	// ErrBusy is returned while an import or export is running.
	ErrBusy = errors.New("a transfer is already running")
	// ErrNotCSV rejects a selected file whose name does not end in .csv.
	ErrNotCSV = errors.New("file must be a CSV")
	// ErrNoFile is returned by Import when no file is selected.
	ErrNoFile = errors.New("no file selected")
	// ErrNotOpen is returned by actions on a closed dialog and by results
	// that arrive after the dialog was closed or reopened.
	ErrNotOpen = errors.New("dialog is not open")
)

// Tab is the visible half of the dialog.
type Tab string

const (
	ImportTab Tab = "import"
	ExportTab Tab = "export"
)

// API is the part of the REST client the dialog uses.
type API interface {
	Download(ctx context.Context, path string) (*apiclient.File, error)
	Upload(ctx context.Context, path, field, fileName string, r io.Reader) (apiclient.Record, error)
}

// Translator resolves translation keys; *i18n.Provider implements it.
type Translator interface {
	T(key string, params ...i18n.Params) string
}

type englishTranslator struct{}

func (englishTranslator) T(key string, params ...i18n.Params) string {
	var p i18n.Params
	if len(params) > 0 {
		p = params[0]
	}
	return i18n.Default().Resolve(i18n.Fallback, key, p)
}

// Result is the server's import summary, shown as received.
type Result struct {
	ImportedCount int      `json:"imported_count"`
	Errors        []string `json:"errors,omitempty"`
}

// State is a copy of the dialog for rendering.
type State struct {
	Open   bool
	Tab    Tab
	File   string
	Result *Result
	Error  string
	Busy   bool
	// Saved is where the last downloaded file was written.
	Saved string
}

// Option configures a Dialog.
type Option func(*Dialog)

// WithClock sets the clock that dates export file names.
func WithClock(now func() time.Time) Option {
	return func(d *Dialog) { d.now = now }
}

// WithLogger sets the logger for failed transfers.
func WithLogger(log *zap.Logger) Option {
	return func(d *Dialog) {
		if log != nil {
			d.log = log
		}
	}
}

// WithTranslator localizes the dialog's messages.
func WithTranslator(tr Translator) Option {
	return func(d *Dialog) {
		if tr != nil {
			d.tr = tr
		}
	}
}

type selectedFile struct {
	name string
	data []byte
}

// Dialog is safe for concurrent use.
type Dialog struct {
	entity string
	api    API
	saver  Saver
	now    func() time.Time
	log    *zap.Logger
	tr     Translator

	mu     sync.Mutex
	open   bool
	gen    uint64
	// cycle lives from one Open or Close to the next; requests derive from it.
	cycle       context.Context
	cancelCycle context.CancelFunc
	tab    Tab
	file   *selectedFile
	result *Result
	errMsg string
	busy   bool
	saved  string
}

// New returns a closed dialog for entity, e.g. "residents".
func New(entity string, api API, saver Saver, opts ...Option) *Dialog {
	d := &Dialog{
		entity: entity,
		api:    api,
		saver:  saver,
		now:    time.Now,
		log:    zap.NewNop(),
		tr:     englishTranslator{},
		tab:    ImportTab,
	}
	d.cycle, d.cancelCycle = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TemplateName is the file name of the import template.
func (d *Dialog) TemplateName() string {
	return d.entity + "_import_template.csv"
}

// ExportName is the file name of an export taken at t.
func (d *Dialog) ExportName(t time.Time) string {
	return fmt.Sprintf("%s_export_%s.csv", d.entity, t.Format("2006-01-02"))
}

func (d *Dialog) endpoint(action string) string {
	return "/import-export/" + d.entity + "/" + action
}

// Open shows the dialog on the import tab with no file, result or error.
func (d *Dialog) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
	d.open = true
}

// Close hides the dialog and discards its state. Requests still running are
// cancelled and their results dropped.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
	d.open = false
}

func (d *Dialog) reset() {
	d.gen++
	d.cancelCycle()
	d.cycle, d.cancelCycle = context.WithCancel(context.Background())
	d.tab = ImportTab
	d.file = nil
	d.result = nil
	d.errMsg = ""
	d.busy = false
	d.saved = ""
}

// SelectTab switches between the import and export halves.
func (d *Dialog) SelectTab(tab Tab) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrNotOpen
	}
	if tab != ImportTab && tab != ExportTab {
		return fmt.Errorf("unknown tab %q", tab)
	}
	d.tab = tab
	return nil
}

// SelectFile picks the file to import. A name without a .csv extension is
// rejected with an inline error and the previous selection is kept.
func (d *Dialog) SelectFile(name string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrNotOpen
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		d.errMsg = d.tr.T("importExport.selectCSV")
		return ErrNotCSV
	}
	d.file = &selectedFile{name: name, data: data}
	d.errMsg = ""
	return nil
}

// DownloadTemplate saves the entity's CSV template. A failure only sets the
// inline error.
func (d *Dialog) DownloadTemplate(ctx context.Context) error {
	t, err := d.begin(ctx, false, false)
	if err != nil {
		return err
	}
	defer t.cancel()
	file, err := d.api.Download(t.ctx, d.endpoint("template"))
	var saved string
	if err == nil {
		saved, err = d.saver.Save(d.TemplateName(), file.Data)
	}
	return d.finish(t.gen, false, err, "importExport.templateFailed", func() { d.saved = saved })
}

// Import uploads the selected file. On success the server's summary is kept
// for display and the selection is cleared.
func (d *Dialog) Import(ctx context.Context) error {
	t, err := d.begin(ctx, true, true)
	if err != nil {
		return err
	}
	defer t.cancel()
	record, err := d.api.Upload(t.ctx, d.endpoint("import"), "file", t.file.name, bytes.NewReader(t.file.data))
	var result *Result
	if err == nil {
		result, err = decodeResult(record)
	}
	return d.finish(t.gen, true, err, "importExport.importFailed", func() {
		d.result = result
		d.file = nil
	})
}

// Export saves the whole collection as {entity}_export_{date}.csv.
func (d *Dialog) Export(ctx context.Context) error {
	t, err := d.begin(ctx, true, false)
	if err != nil {
		return err
	}
	defer t.cancel()
	file, err := d.api.Download(t.ctx, d.endpoint("export"))
	var saved string
	if err == nil {
		saved, err = d.saver.Save(d.ExportName(d.now()), file.Data)
	}
	return d.finish(t.gen, true, err, "importExport.exportFailed", func() { d.saved = saved })
}

// State returns a copy of the dialog.
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := State{Open: d.open, Tab: d.tab, Error: d.errMsg, Busy: d.busy, Saved: d.saved}
	if d.file != nil {
		st.File = d.file.name
	}
	if d.result != nil {
		copied := *d.result
		copied.Errors = append([]string(nil), d.result.Errors...)
		st.Result = &copied
	}
	return st
}

// ticket is one request started by begin. Its context ends with the caller's
// context or with the dialog's current open cycle.
type ticket struct {
	gen    uint64
	file   *selectedFile
	ctx    context.Context
	cancel context.CancelFunc
}

func (d *Dialog) begin(ctx context.Context, exclusive, needFile bool) (ticket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ticket{}, ErrNotOpen
	}
	if d.busy {
		return ticket{}, ErrBusy
	}
	if needFile && d.file == nil {
		d.errMsg = d.tr.T("importExport.selectFile")
		return ticket{}, ErrNoFile
	}
	d.errMsg = ""
	if exclusive {
		d.busy = true
	}
	scoped, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(d.cycle, cancel)
	release := func() {
		stop()
		cancel()
	}
	return ticket{gen: d.gen, file: d.file, ctx: scoped, cancel: release}, nil
}

func (d *Dialog) finish(gen uint64, exclusive bool, err error, failKey string, onSuccess func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open || gen != d.gen {
		return ErrNotOpen
	}
	if exclusive {
		d.busy = false
	}
	if err != nil {
		d.log.Warn("transfer failed", zap.String("entity", d.entity), zap.String("action", failKey), zap.Error(err))
		var transportErr *apiclient.TransportError
		if errors.As(err, &transportErr) {
			d.errMsg = d.tr.T("importExport.networkError")
		} else {
			d.errMsg = apiclient.Message(err, d.tr.T(failKey))
		}
		return err
	}
	onSuccess()
	return nil
}

func decodeResult(record apiclient.Record) (*Result, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode import result: %w", err)
	}
	return &result, nil
}
