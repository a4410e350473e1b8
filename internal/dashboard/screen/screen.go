package screen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zYagamiBR/hoa-helper/internal/dashboard/apiclient"
	"github.com/zYagamiBR/hoa-helper/internal/dashboard/i18n"
)

// API is the part of the REST client a screen uses.
type API interface {
	List(ctx context.Context, path string) ([]apiclient.Record, error)
	Create(ctx context.Context, path string, body any) (apiclient.Record, error)
	Update(ctx context.Context, path, id string, body any) (apiclient.Record, error)
	Delete(ctx context.Context, path, id string) error
}

// Translator resolves translation keys; *i18n.Provider implements it.
type Translator interface {
	T(key string, params ...i18n.Params) string
}

type fallbackTranslator struct{}

func (fallbackTranslator) T(key string, params ...i18n.Params) string {
	var p i18n.Params
	if len(params) > 0 {
		p = params[0]
	}
	return i18n.Default().Resolve(i18n.Fallback, key, p)
}

// ScreenOption configures a Screen.
type ScreenOption func(*Screen)

// WithClock replaces time.Now for date-based stats.
func WithClock(now func() time.Time) ScreenOption {
	return func(s *Screen) { s.now = now }
}

// WithLogger sets the logger for failed requests.
func WithLogger(log *zap.Logger) ScreenOption {
	return func(s *Screen) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTranslator localizes the generic failure messages.
func WithTranslator(tr Translator) ScreenOption {
	return func(s *Screen) {
		if tr != nil {
			s.tr = tr
		}
	}
}

// StatValue is a computed stat.
type StatValue struct {
	Name     string
	Label    string
	Value    decimal.Decimal
	Currency bool
}

// Snapshot is a consistent copy of everything a view renders.
type Snapshot struct {
	State   State
	Records []apiclient.Record
	View    []apiclient.Record
	Stats   []StatValue
	// Options holds the choices loaded for fields with an OptionSource.
	Options    map[string][]Option
	Search     string
	Filters    map[string]string
	Error      string
	Refreshing bool
}

// Screen is safe for concurrent use. Every action that waits on the network
// takes a context and is also cancelled by Close; results that arrive after
// Close change nothing.
type Screen struct {
	res Resource
	api API
	log *zap.Logger
	tr  Translator
	now func() time.Time

	life     context.Context
	shutdown context.CancelFunc

	mu         sync.Mutex
	state      State
	records    []apiclient.Record
	options    map[string][]Option
	search     string
	filters    map[string]string
	notice     string
	listSeq    uint64
	listCancel context.CancelFunc
	refreshing bool
	closed     bool
}

// New returns a screen in the Loading state. Call Load to fetch the list.
func New(res Resource, api API, opts ...ScreenOption) *Screen {
	life, shutdown := context.WithCancel(context.Background())
	s := &Screen{
		res:      res,
		api:      api,
		log:      zap.NewNop(),
		tr:       fallbackTranslator{},
		now:      time.Now,
		life:     life,
		shutdown: shutdown,
		state:    Loading{},
		records:  []apiclient.Record{},
		options:  map[string][]Option{},
		filters:  map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resource returns the screen's descriptor.
func (s *Screen) Resource() Resource {
	return s.res
}

// Load fetches the list and every option source concurrently and leaves the
// screen Ready whatever the outcome. A failed list leaves it empty and sets
// the error notice; a failed option source leaves that select without
// choices.
func (s *Screen) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if _, ok := s.state.(Loading); !ok {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.mu.Unlock()

	var listErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listErr = s.reload(gctx)
		return nil
	})
	for _, f := range s.res.Fields {
		if f.Source == nil {
			continue
		}
		field := f
		g.Go(func() error {
			return s.loadOptions(gctx, field)
		})
	}
	waitErr := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.state.(Loading); ok {
		s.state = Ready{}
	}
	if listErr != nil {
		return listErr
	}
	return waitErr
}

// Reload fetches the list again. A newer Reload cancels an older one still in
// flight, and a response that arrives after a newer request was issued is
// dropped. A failed reload keeps the previous list.
func (s *Screen) Reload(ctx context.Context) error {
	return s.reload(ctx)
}

func (s *Screen) reload(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.listSeq++
	seq := s.listSeq
	if s.listCancel != nil {
		s.listCancel()
	}
	lctx, cancel := s.scope(ctx)
	s.listCancel = cancel
	s.refreshing = true
	s.mu.Unlock()

	records, err := s.api.List(lctx, s.res.Path)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if seq != s.listSeq {
		return nil
	}
	s.listCancel = nil
	s.refreshing = false
	if err != nil {
		s.log.Warn("list failed", zap.String("resource", s.res.Name), zap.Error(err))
		s.notice = apiclient.Message(err, s.tr.T("common.loadFailed"))
		return err
	}
	if records == nil {
		records = []apiclient.Record{}
	}
	s.records = records
	return nil
}

func (s *Screen) loadOptions(ctx context.Context, f Field) error {
	records, err := s.api.List(ctx, f.Source.Path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn("option source failed",
			zap.String("resource", s.res.Name),
			zap.String("field", f.Key),
			zap.Error(err),
		)
		return nil
	}

	valueKey := f.Source.ValueKey
	if valueKey == "" {
		valueKey = "id"
	}
	options := make([]Option, 0, len(records))
	for _, r := range records {
		label := Value(r, valueKey)
		if f.Source.Label != nil {
			label = f.Source.Label(r)
		}
		options = append(options, Option{Value: Value(r, valueKey), Label: label})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.options[f.Key] = options
	}
	return nil
}

// OpenCreate opens an empty form seeded with field defaults.
func (s *Screen) OpenCreate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expectReady(); err != nil {
		return err
	}
	s.state = FormOpen{Mode: Create, Draft: NewDraft(s.res.Fields)}
	return nil
}

// OpenEdit opens a form seeded from the listed record with id.
func (s *Screen) OpenEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expectReady(); err != nil {
		return err
	}
	record, ok := s.find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotListed, id)
	}
	s.state = FormOpen{Mode: Edit, RecordID: id, Draft: DraftFrom(s.res.Fields, record)}
	return nil
}

// SetField stores one input of the open form. Checkbox values are bools,
// everything else is a string.
func (s *Screen) SetField(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	form, ok := s.state.(FormOpen)
	if !ok {
		return ErrInvalidTransition
	}
	if _, ok := s.res.Field(key); !ok {
		return fmt.Errorf("%s has no field %q", s.res.Name, key)
	}
	switch value.(type) {
	case string, bool:
	default:
		return fmt.Errorf("field %s: unsupported input %T", key, value)
	}

	form.Draft = form.Draft.clone()
	form.Draft[key] = value
	if len(form.FieldErrors) > 0 {
		errs := make(map[string]string, len(form.FieldErrors))
		for k, v := range form.FieldErrors {
			if k != key {
				errs[k] = v
			}
		}
		form.FieldErrors = errs
	}
	s.state = form
	return nil
}

// CancelForm discards the open form.
func (s *Screen) CancelForm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.state.(FormOpen); !ok {
		return ErrInvalidTransition
	}
	s.state = Ready{}
	return nil
}

// Submit sends the open form. Input that cannot be converted keeps the form
// open with inline errors and sends nothing. A failed request returns to
// the form with the server's message and the draft intact. Success closes
// the form and reloads the list.
func (s *Screen) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	form, ok := s.state.(FormOpen)
	if !ok {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	body, err := Payload(s.res.Fields, form.Draft)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			form.FieldErrors = verr.Fields
		}
		form.Error = ""
		s.state = form
		s.mu.Unlock()
		return err
	}
	s.state = Submitting{Mode: form.Mode, RecordID: form.RecordID, Draft: form.Draft}
	s.mu.Unlock()

	s.log.Debug("submitting form",
		zap.String("resource", s.res.Name),
		zap.Stringer("mode", form.Mode),
		zap.String("payload", encode(body)),
	)
	rctx, cancel := s.scope(ctx)
	if form.Mode == Create {
		_, err = s.api.Create(rctx, s.res.Path, body)
	} else {
		_, err = s.api.Update(rctx, s.res.Path, form.RecordID, body)
	}
	cancel()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		s.log.Warn("save failed", zap.String("resource", s.res.Name), zap.Stringer("mode", form.Mode), zap.Error(err))
		form.FieldErrors = nil
		form.Error = apiclient.Message(err, s.tr.T("common.saveFailed"))
		s.state = form
		s.mu.Unlock()
		return err
	}
	s.state = Ready{}
	s.mu.Unlock()

	_ = s.reload(ctx)
	return nil
}

// RequestDelete asks for confirmation before deleting the record with id.
func (s *Screen) RequestDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.expectReady(); err != nil {
		return err
	}
	if _, ok := s.find(id); !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotListed, id)
	}
	s.state = ConfirmingDelete{RecordID: id}
	return nil
}

// CancelDelete declines the pending delete. Nothing is sent.
func (s *Screen) CancelDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	pending, ok := s.state.(ConfirmingDelete)
	if !ok || pending.InFlight {
		return ErrInvalidTransition
	}
	s.state = Ready{}
	return nil
}

// ConfirmDelete accepts the pending delete and sends it. On success the list
// is reloaded; on failure it is left unchanged and the error notice is set.
func (s *Screen) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	pending, ok := s.state.(ConfirmingDelete)
	if !ok || pending.InFlight {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	pending.InFlight = true
	s.state = pending
	s.mu.Unlock()

	rctx, cancel := s.scope(ctx)
	err := s.api.Delete(rctx, s.res.Path, pending.RecordID)
	cancel()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = Ready{}
	if err != nil {
		s.log.Warn("delete failed", zap.String("resource", s.res.Name), zap.String("id", pending.RecordID), zap.Error(err))
		s.notice = apiclient.Message(err, s.tr.T("common.deleteFailed"))
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	_ = s.reload(ctx)
	return nil
}

// SetSearch sets the free-text search term.
func (s *Screen) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
}

// SetFilter selects a filter value; "" clears that filter.
func (s *Screen) SetFilter(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.res.Filters {
		if f.Key == key {
			if value == "" {
				delete(s.filters, key)
			} else {
				s.filters[key] = value
			}
			return nil
		}
	}
	return fmt.Errorf("%s has no filter %q", s.res.Name, key)
}

// ClearFilters resets the search term and every filter.
func (s *Screen) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = ""
	s.filters = map[string]string{}
}

// DismissError clears the error notice.
func (s *Screen) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = ""
}

// State returns the current phase.
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Records returns the full list in server order.
func (s *Screen) Records() []apiclient.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]apiclient.Record(nil), s.records...)
}

// View returns the records matching the search term and active filters.
func (s *Screen) View() []apiclient.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Stats computes every stat over the full, unfiltered list.
func (s *Screen) Stats() []StatValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats()
}

// Snapshot returns a consistent copy of the screen.
func (s *Screen) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	options := make(map[string][]Option, len(s.options))
	for k, v := range s.options {
		options[k] = append([]Option(nil), v...)
	}
	filters := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		filters[k] = v
	}
	return Snapshot{
		State:      s.state,
		Records:    append([]apiclient.Record(nil), s.records...),
		View:       s.view(),
		Stats:      s.stats(),
		Options:    options,
		Search:     s.search,
		Filters:    filters,
		Error:      s.notice,
		Refreshing: s.refreshing,
	}
}

// Close cancels every request in flight. Later results are dropped and
// every action returns ErrClosed.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.shutdown()
	if s.listCancel != nil {
		s.listCancel()
		s.listCancel = nil
	}
}

func (s *Screen) view() []apiclient.Record {
	term := strings.ToLower(s.search)
	out := make([]apiclient.Record, 0, len(s.records))
	for _, r := range s.records {
		if s.matchesSearch(r, term) && s.matchesFilters(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Screen) matchesSearch(r apiclient.Record, term string) bool {
	if term == "" {
		return true
	}
	for _, key := range s.res.Search {
		if strings.Contains(strings.ToLower(Value(r, key)), term) {
			return true
		}
	}
	return false
}

func (s *Screen) matchesFilters(r apiclient.Record) bool {
	for key, want := range s.filters {
		if Value(r, key) != want {
			return false
		}
	}
	return true
}

func (s *Screen) stats() []StatValue {
	now := s.now()
	out := make([]StatValue, len(s.res.Stats))
	for i, st := range s.res.Stats {
		out[i] = StatValue{Name: st.Name, Label: st.Label, Currency: st.Currency, Value: st.Compute(s.records, now)}
	}
	return out
}

func (s *Screen) expectReady() error {
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.state.(Ready); !ok {
		return ErrInvalidTransition
	}
	return nil
}

func (s *Screen) find(id string) (apiclient.Record, bool) {
	for _, r := range s.records {
		if rid, ok := r.ID(); ok && rid == id {
			return r, true
		}
	}
	return nil, false
}

// scope returns a context cancelled by ctx, by Close, or by the returned
// cancel func.
func (s *Screen) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	scoped, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.life, cancel)
	return scoped, func() {
		stop()
		cancel()
	}
}
