// Package copilot drives operation documents through validation, canonical
// conversion and persistence.
package copilot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"copilot-ops/internal/locale"
	"copilot-ops/internal/metrics"
	"copilot-ops/internal/operation"
	"copilot-ops/internal/storage"
	"copilot-ops/internal/validation"
	"copilot-ops/internal/wire"
)

var ErrInvalidDocument = errors.New("invalid operation document")

type OperationStore interface {
	CreateOperation(ctx context.Context, op storage.StoredOperation) (int64, error)
	UpdateOperation(ctx context.Context, id int64, op storage.StoredOperation) error
	DeleteOperation(ctx context.Context, id int64) error
	GetOperation(ctx context.Context, id int64) (*storage.StoredOperation, error)
	QueryOperations(ctx context.Context, q storage.OperationQuery) ([]storage.StoredOperation, error)
	CountOperations(ctx context.Context, q storage.OperationQuery) (int, error)
	IncrementViews(ctx context.Context, id int64) error
}

type LevelSource interface {
	Levels(ctx context.Context) ([]operation.Level, error)
	FindOrCustom(ctx context.Context, stageName string) (operation.Level, error)
}

// SubmitError is a failed submit. State is where the flow stopped; the
// document is back in editing afterwards. Message is the text for the
// document-level error slot.
type SubmitError struct {
	State   State
	Message string
	Fields  []validation.FieldError
	Trace   []State
	Err     error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit %s: %s", e.State, e.Message)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Submission is a persisted document.
type Submission struct {
	ID    int64   `json:"id"`
	State State   `json:"state"`
	Trace []State `json:"trace"`
}

// Document is a stored operation, optionally with its editable form.
type Document struct {
	storage.StoredOperation
	Editable *operation.Operation `json:"editable,omitempty"`
	Level    *operation.Level     `json:"level,omitempty"`
}

type Page struct {
	Total int                       `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
	Items []storage.StoredOperation `json:"items"`
}

type Service struct {
	log        *slog.Logger
	store      OperationStore
	levels     LevelSource
	validator  *validation.Validator
	normalizer *operation.Normalizer
	ids        operation.IDGenerator
	metrics    *metrics.Metrics
	printer    *message.Printer
}

type Option func(*Service)

// WithIDGenerator replaces the UUID generator used for editable documents.
func WithIDGenerator(gen operation.IDGenerator) Option {
	return func(s *Service) { s.ids = gen }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocale sets the language of the document-level messages.
func WithLocale(lang string) Option {
	return func(s *Service) { s.printer = locale.Printer(lang) }
}

func New(log *slog.Logger, store OperationStore, levels LevelSource, validator *validation.Validator, opts ...Option) *Service {
	s := &Service{
		log:        log,
		store:      store,
		levels:     levels,
		validator:  validator,
		normalizer: operation.NewNormalizer(nil),
		ids:        operation.UUIDGenerator{},
		printer:    locale.Printer(locale.Default),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate runs the schema validator on an editable document.
func (s *Service) Validate(op *operation.Operation) *validation.Result {
	res := s.validator.Validate(op)
	if res.Valid {
		s.metrics.Validation(metrics.OutcomeOK)
	} else {
		s.metrics.Validation(metrics.OutcomeInvalid)
	}
	return res
}

// Editable decodes canonical content and returns its editable form.
func (s *Service) Editable(content []byte) (*operation.Operation, error) {
	const op = "service.copilot.Editable"

	doc, err := operation.ParseCanonical(content)
	if err != nil {
		s.metrics.Conversion("editable", metrics.OutcomeFailed)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidDocument, err)
	}

	s.metrics.Conversion("editable", metrics.OutcomeOK)
	return s.normalizer.ToEditable(doc, s.ids), nil
}

// Qualify converts an editable document to its wire-cased canonical form.
func (s *Service) Qualify(ctx context.Context, doc *operation.Operation) (wire.Tree, error) {
	_, tree, err := s.qualify(ctx, doc)
	return tree, err
}

func (s *Service) qualify(ctx context.Context, doc *operation.Operation) (*operation.Operation, wire.Tree, error) {
	const op = "service.copilot.qualify"

	levels, err := s.levels.Levels(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	qualified, err := operation.Qualify(doc, levels)
	if err != nil {
		s.metrics.Conversion("qualified", metrics.OutcomeFailed)
		return nil, nil, err
	}

	tree, err := wire.Encode(qualified, wire.Snake)
	if err != nil {
		s.metrics.Conversion("qualified", metrics.OutcomeFailed)
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Conversion("qualified", metrics.OutcomeOK)
	return qualified, tree, nil
}

// Submit validates doc, converts it to the canonical form and stores it. A
// zero id creates a new operation; any other id replaces that operation.
// Every failure is a *SubmitError.
func (s *Service) Submit(ctx context.Context, id int64, doc *operation.Operation, uploader string) (*Submission, error) {
	const op = "service.copilot.Submit"

	log := s.log.With(slog.String("op", op), slog.Int64("id", id))
	f := newFlow()

	doc = normalizeActions(doc)

	f.advance(StateValidating)
	res := s.Validate(doc)
	if !res.Valid {
		f.advance(StateInvalid)
		f.advance(StateEditing)
		log.Info("operation rejected by validation", slog.String("message", res.Message))
		return nil, &SubmitError{
			State:   StateInvalid,
			Message: res.Message,
			Fields:  res.Fields,
			Trace:   f.Trace(),
			Err:     res.Err(),
		}
	}
	f.advance(StateValid)

	f.advance(StateConverting)
	qualified, tree, err := s.qualify(ctx, doc)
	if err != nil {
		f.advance(StateEditing)
		msg := s.printer.Sprintf(locale.MsgInternalError)
		if errors.Is(err, operation.ErrInvalidLevel) {
			msg = s.printer.Sprintf(locale.MsgInvalidLevel)
			log.Info("operation conversion failed", slog.String("error", err.Error()))
		} else {
			log.Error("operation conversion failed", slog.String("error", err.Error()))
		}
		return nil, &SubmitError{State: StateConverting, Message: msg, Trace: f.Trace(), Err: err}
	}

	f.advance(StateSubmitting)
	stored, err := storedFrom(qualified, tree, uploader)
	if err == nil {
		id, err = s.persist(ctx, id, stored)
	}
	if err != nil {
		f.advance(StatePersistFailed)
		f.advance(StateEditing)
		return nil, s.persistError(log, err, f)
	}

	f.advance(StatePersisted)
	log.Info("operation persisted", slog.Int64("stored_id", id))
	return &Submission{ID: id, State: StatePersisted, Trace: f.Trace()}, nil
}

// normalizeActions returns a copy of doc with the submit rules applied to
// every action.
func normalizeActions(doc *operation.Operation) *operation.Operation {
	out := doc.Clone()
	if out == nil {
		return nil
	}
	for i, a := range out.Actions {
		out.Actions[i] = operation.NormalizeAction(a)
	}
	return out
}

func (s *Service) persist(ctx context.Context, id int64, stored storage.StoredOperation) (int64, error) {
	if id == 0 {
		newID, err := s.store.CreateOperation(ctx, stored)
		s.countSubmission("create", err)
		return newID, err
	}

	err := s.store.UpdateOperation(ctx, id, stored)
	s.countSubmission("update", err)
	return id, err
}

func (s *Service) persistError(log *slog.Logger, err error, f *flow) *SubmitError {
	msg := s.printer.Sprintf(locale.MsgPersistFailed)
	if errors.Is(err, storage.ErrOperationNotFound) {
		msg = s.printer.Sprintf(locale.MsgNotFound)
		log.Info("operation to update not found")
	} else {
		log.Error("failed to persist operation", slog.String("error", err.Error()))
	}
	return &SubmitError{State: StatePersistFailed, Message: msg, Trace: f.Trace(), Err: err}
}

func (s *Service) countSubmission(kind string, err error) {
	if err != nil {
		s.metrics.Submission(kind, metrics.OutcomeFailed)
		return
	}
	s.metrics.Submission(kind, metrics.OutcomeOK)
}

func storedFrom(qualified *operation.Operation, tree wire.Tree, uploader string) (storage.StoredOperation, error) {
	content, err := json.Marshal(tree)
	if err != nil {
		return storage.StoredOperation{}, fmt.Errorf("service.copilot.storedFrom: %w", err)
	}

	return storage.StoredOperation{
		StageName:       qualified.StageName,
		Title:           qualified.Doc.Title,
		Details:         qualified.Doc.Details,
		MinimumRequired: qualified.MinimumRequired,
		Content:         string(content),
		Uploader:        uploader,
	}, nil
}

// Upload stores canonical content as a new operation. The content goes
// through the editable form first so legacy tokens are resolved.
func (s *Service) Upload(ctx context.Context, content, uploader string) (*Submission, error) {
	doc, err := s.decodeContent(content)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, 0, doc, uploader)
}

// Update replaces the operation id with canonical content.
func (s *Service) Update(ctx context.Context, id int64, content, uploader string) (*Submission, error) {
	doc, err := s.decodeContent(content)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, id, doc, uploader)
}

func (s *Service) decodeContent(content string) (*operation.Operation, error) {
	doc, err := s.Editable([]byte(content))
	if err != nil {
		return nil, &SubmitError{
			State:   StateEditing,
			Message: s.printer.Sprintf(locale.MsgInvalidDocument),
			Trace:   []State{StateEditing},
			Err:     err,
		}
	}
	return doc, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "service.copilot.Delete"

	err := s.store.DeleteOperation(ctx, id)
	s.countSubmission("delete", err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("operation deleted", slog.String("op", op), slog.Int64("id", id))
	return nil
}

// Get returns a stored operation and counts the view. With editable set the
// editable form of the content is attached, together with its level (a custom
// placeholder for stages the catalog does not know).
func (s *Service) Get(ctx context.Context, id int64, editable bool) (*Document, error) {
	const op = "service.copilot.Get"

	if err := s.store.IncrementViews(ctx, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stored, err := s.store.GetOperation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc := &Document{StoredOperation: *stored}
	if editable {
		doc.Editable, err = s.Editable([]byte(stored.Content))
		if err != nil {
			return nil, fmt.Errorf("%s: id=%d: %w", op, id, err)
		}

		level, err := s.levels.FindOrCustom(ctx, doc.Editable.StageName)
		if err != nil {
			s.log.Warn("level catalog unavailable", slog.String("op", op), slog.String("error", err.Error()))
			return doc, nil
		}
		doc.Level = &level
	}
	return doc, nil
}

// Query lists stored operations. The page and the total are read
// concurrently.
func (s *Service) Query(ctx context.Context, q storage.OperationQuery) (*Page, error) {
	const op = "service.copilot.Query"

	q = q.Normalize()

	var (
		total int
		items []storage.StoredOperation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.store.CountOperations(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.store.QueryOperations(gctx, q)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if items == nil {
		items = []storage.StoredOperation{}
	}
	return &Page{Total: total, Page: q.Page, Limit: q.Limit, Items: items}, nil
}
