// Package domain contains the core docstring planning, rendering, and
// application logic.
package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/quill/internal/adapter"
	m "github.com/mouse-blink/quill/internal/model"
)

// contentPrefetchLimit bounds provider calls in flight for one file.
const contentPrefetchLimit = 4

// Confirmer answers per-candidate accept, edit, reject, and quit
// questions for one file.
type Confirmer interface {
	Confirm(path m.Path, candidates []m.Candidate) ([]m.ConfirmResponse, error)
}

// RunOptions carries one resolved run configuration.
type RunOptions struct {
	Root          m.Path
	FilePatterns  []string
	IgnoreFiles   []string
	Functions     m.FilterSpec
	Language      m.Language
	Style         m.DocstringStyle
	Policy        m.OverwritePolicy
	NoSummary     bool
	ForceAll      bool
	DryRun        bool
	Parallel      int
	FailOnNoMatch bool
}

// CheckOptions carries the configuration for a read-only documentation
// audit. When Paths is set, discovery is skipped and exactly those files
// are checked.
type CheckOptions struct {
	Root          m.Path
	Paths         []m.Path
	FilePatterns  []string
	IgnoreFiles   []string
	Functions     m.FilterSpec
	Language      m.Language
	FailOnNoMatch bool
}

// Workflow drives the docstring pipeline from file discovery to applied
// edits.
type Workflow interface {
	Run(ctx context.Context, opts RunOptions) (m.RunReport, error)
	Check(ctx context.Context, opts CheckOptions) (m.CheckReport, error)
}

type workflow struct {
	fs       adapter.SourceFSAdapter
	registry *adapter.Registry
	provider adapter.ContentProvider
	history  adapter.HistoryStore
	confirm  Confirmer
	planner  Planner
	renderer Renderer
	applier  Applier
	log      *logrus.Logger
}

// NewWorkflow creates a new Workflow instance with the provided
// collaborators. The history store may be nil to disable run recording;
// the confirmer is consulted only when a run asks for confirmation.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	registry *adapter.Registry,
	provider adapter.ContentProvider,
	history adapter.HistoryStore,
	confirmer Confirmer,
	log *logrus.Logger,
) Workflow {
	if log == nil {
		log = logrus.New()
	}

	return &workflow{
		fs:       fs,
		registry: registry,
		provider: provider,
		history:  history,
		confirm:  confirmer,
		planner:  NewPlanner(),
		renderer: NewRenderer(),
		applier:  NewApplier(),
		log:      log,
	}
}

// Run processes every matching file under the root. Files are isolated
// from each other: one failed file is reported and the rest continue.
func (w *workflow) Run(ctx context.Context, opts RunOptions) (m.RunReport, error) {
	report := m.RunReport{
		ID:      runID(),
		Started: time.Now(),
		DryRun:  opts.DryRun,
	}

	opts.Root = normalizeRoot(opts.Root)

	files, err := w.selectFiles(opts.Root, opts.FilePatterns, opts.IgnoreFiles, opts.Language)
	if err != nil {
		return report, err
	}

	if len(files) == 0 {
		w.log.WithField("root", opts.Root).Warn("no files matched")

		if opts.FailOnNoMatch {
			return report, ErrNoFilesMatched
		}

		return report, nil
	}

	lang, err := w.registry.Lookup(opts.Language)
	if err != nil {
		return report, err
	}

	var docs []m.AppliedDocstring

	if opts.ForceAll {
		report.Results, docs = w.runParallel(ctx, lang, files, opts)
	} else {
		report.Results, docs = w.runSequential(ctx, lang, files, opts)
	}

	w.recordRun(report, opts, docs)

	return report, nil
}

// Check audits documentation coverage without writing anything.
func (w *workflow) Check(ctx context.Context, opts CheckOptions) (m.CheckReport, error) {
	report := m.CheckReport{Failures: make(map[m.Path]string)}

	opts.Root = normalizeRoot(opts.Root)

	var files []fileTarget

	if len(opts.Paths) > 0 {
		files = w.explicitTargets(opts.Root, opts.Paths, opts.FilePatterns, opts.IgnoreFiles)
	} else {
		var err error

		files, err = w.selectFiles(opts.Root, opts.FilePatterns, opts.IgnoreFiles, opts.Language)
		if err != nil {
			return report, err
		}
	}

	if len(files) == 0 {
		if opts.FailOnNoMatch {
			return report, ErrNoFilesMatched
		}

		return report, nil
	}

	lang, err := w.registry.Lookup(opts.Language)
	if err != nil {
		return report, err
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Files++

		src, err := w.fs.ReadFile(file.abs)
		if err != nil {
			report.Failures[file.rel] = err.Error()
			continue
		}

		records, err := lang.Extract(src)
		if err != nil {
			report.Failures[file.rel] = err.Error()
			continue
		}

		for _, record := range records {
			if record.HasDocstring || !selected(record.Name, opts.Functions) {
				continue
			}

			report.Undocumented = append(report.Undocumented, m.Undocumented{
				Path:      file.rel,
				Line:      record.Line,
				Name:      record.QualifiedName,
				Signature: record.Signature,
			})
		}
	}

	return report, nil
}

// fileTarget pairs a file's absolute path with its root-relative form
// used for filtering, display, and history.
type fileTarget struct {
	abs m.Path
	rel m.Path
}

// fileOutcome is the full result of processing one file.
type fileOutcome struct {
	result m.FileResult
	docs   []m.AppliedDocstring
	quit   bool
}

// selectFiles discovers sources for the language and filters them by the
// include and ignore patterns, matched against root-relative paths.
func (w *workflow) selectFiles(root m.Path, include, ignore []string, language m.Language) ([]fileTarget, error) {
	paths, err := w.fs.Discover(root, language.Extensions())
	if err != nil {
		return nil, fmt.Errorf("discovering sources under %s: %w", root, err)
	}

	targets := make([]fileTarget, 0, len(paths))

	for _, path := range paths {
		rel := w.relTo(root, path)

		if !matchesAny(include, string(rel)) || matchesAny(ignore, string(rel)) {
			continue
		}

		targets = append(targets, fileTarget{abs: path, rel: rel})
	}

	return targets, nil
}

// explicitTargets resolves caller-supplied paths, still honoring the
// include and ignore patterns when any are given.
func (w *workflow) explicitTargets(root m.Path, paths []m.Path, include, ignore []string) []fileTarget {
	targets := make([]fileTarget, 0, len(paths))

	for _, path := range paths {
		rel := w.relTo(root, path)

		if len(include) > 0 && !matchesAny(include, string(rel)) {
			continue
		}

		if matchesAny(ignore, string(rel)) {
			continue
		}

		targets = append(targets, fileTarget{abs: path, rel: rel})
	}

	return targets
}

func (w *workflow) relTo(root, path m.Path) m.Path {
	rel, err := w.fs.RelPath(root, path)
	if err != nil || rel == "." {
		return m.Path(filepath.Base(string(path)))
	}

	return rel
}

// normalizeRoot makes the run root absolute so discovered paths can be
// made relative to it for filtering and display.
func normalizeRoot(root m.Path) m.Path {
	abs, err := filepath.Abs(string(root))
	if err != nil {
		return root
	}

	return m.Path(abs)
}

// runSequential processes files one at a time so confirmation prompts
// never interleave. A quit decision cancels the remainder of the run.
func (w *workflow) runSequential(ctx context.Context, lang adapter.LanguageAdapter, files []fileTarget, opts RunOptions) ([]m.FileResult, []m.AppliedDocstring) {
	results := make([]m.FileResult, 0, len(files))

	var docs []m.AppliedDocstring

	for i, file := range files {
		outcome := w.processFile(ctx, lang, file, opts)
		results = append(results, outcome.result)
		docs = append(docs, outcome.docs...)

		if outcome.quit {
			for _, rest := range files[i+1:] {
				results = append(results, skipped(rest.rel, "cancelled"))
			}

			break
		}
	}

	return results, docs
}

// runParallel processes files on a worker pool. Only forced runs come
// here, so no worker ever blocks on user input.
func (w *workflow) runParallel(ctx context.Context, lang adapter.LanguageAdapter, files []fileTarget, opts RunOptions) ([]m.FileResult, []m.AppliedDocstring) {
	threads := opts.Parallel
	if threads <= 0 {
		threads = 1
	}

	jobs := make(chan fileTarget, len(files))
	outcomes := make(chan fileOutcome, len(files))

	var wg sync.WaitGroup

	for range threads {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for file := range jobs {
				outcomes <- w.processFile(ctx, lang, file, opts)
			}
		}()
	}

	for _, file := range files {
		jobs <- file
	}

	close(jobs)

	wg.Wait()
	close(outcomes)

	byPath := make(map[m.Path]fileOutcome, len(files))

	var docs []m.AppliedDocstring

	for outcome := range outcomes {
		byPath[outcome.result.Path] = outcome
		docs = append(docs, outcome.docs...)
	}

	// Report in discovery order regardless of completion order.
	results := make([]m.FileResult, 0, len(files))

	for _, file := range files {
		if outcome, ok := byPath[file.rel]; ok {
			results = append(results, outcome.result)
		}
	}

	return results, docs
}

// processFile runs the whole pipeline for one file: extract, plan, fetch
// content, render, confirm, apply, write. Every failure stays scoped to
// the file.
func (w *workflow) processFile(ctx context.Context, lang adapter.LanguageAdapter, file fileTarget, opts RunOptions) fileOutcome {
	if ctx.Err() != nil {
		return fileOutcome{result: skipped(file.rel, "cancelled"), quit: true}
	}

	src, err := w.fs.ReadFile(file.abs)
	if err != nil {
		return fileOutcome{result: failed(file.rel, err)}
	}

	fingerprint, err := w.fs.HashFile(file.abs)
	if err != nil {
		return fileOutcome{result: failed(file.rel, err)}
	}

	records, err := lang.Extract(src)
	if err != nil {
		return fileOutcome{result: failed(file.rel, &adapter.ExtractionError{Path: file.rel, Err: err})}
	}

	placements := w.planner.Plan(records, opts.Functions, opts.Policy, opts.Style)
	if len(placements) == 0 {
		return fileOutcome{result: skipped(file.rel, "nothing to document")}
	}

	contents := w.fetchContents(ctx, placements)

	candidates := make([]m.Candidate, len(placements))

	for i, placement := range placements {
		rendered, err := w.renderer.Render(placement.Record, opts.Style, contents[i], opts.NoSummary)
		if err != nil {
			return fileOutcome{result: failed(file.rel, err)}
		}

		candidates[i] = m.Candidate{
			Record:   placement.Record,
			Rendered: rendered,
			Existing: existingText(src, placement),
			Op: m.EditOperation{
				Range:       placement.Range,
				Replacement: rendered,
				Kind:        placement.Kind,
			},
		}
	}

	var responses []m.ConfirmResponse

	if !opts.ForceAll && w.confirm != nil {
		responses, err = w.confirm.Confirm(file.rel, candidates)
		if err != nil {
			return fileOutcome{result: failed(file.rel, err)}
		}

		if quitRequested(responses) {
			// Quitting leaves the current file untouched as well.
			return fileOutcome{result: skipped(file.rel, "cancelled"), quit: true}
		}
	}

	ops := make([]m.EditOperation, len(candidates))
	for i, candidate := range candidates {
		ops[i] = candidate.Op
	}

	buffer, applied, err := w.applier.Apply(src, ops, responses)
	if err != nil {
		return fileOutcome{result: failed(file.rel, err)}
	}

	if applied == 0 {
		return fileOutcome{result: skipped(file.rel, "no candidates accepted")}
	}

	if !opts.DryRun {
		if ctx.Err() != nil {
			return fileOutcome{result: skipped(file.rel, "cancelled"), quit: true}
		}

		if err := w.writeBack(file, fingerprint, buffer); err != nil {
			return fileOutcome{result: failed(file.rel, err)}
		}
	}

	result := m.FileResult{
		Path:      file.rel,
		Status:    m.StatusWritten,
		Functions: applied,
	}

	return fileOutcome{result: result, docs: appliedDocs(file.rel, candidates, responses)}
}

// fetchContents fills content for every placement with a bounded number
// of provider calls in flight, so a slow provider overlaps its own
// latency instead of serializing the file.
func (w *workflow) fetchContents(ctx context.Context, placements []m.Placement) []m.ContentFields {
	contents := make([]m.ContentFields, len(placements))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(contentPrefetchLimit)

	for i, placement := range placements {
		g.Go(func() error {
			contents[i] = w.contentFor(ctx, placement.Record)
			return nil
		})
	}

	_ = g.Wait()

	return contents
}

// contentFor asks the provider for prose and falls back to placeholder
// sentinels when the reply is unusable. Provider trouble never fails a
// run.
func (w *workflow) contentFor(ctx context.Context, record m.FunctionRecord) m.ContentFields {
	fields, err := w.provider.Fill(ctx, record)
	if err != nil {
		w.log.WithFields(logrus.Fields{
			"function": record.QualifiedName,
			"provider": w.provider.Kind(),
		}).WithError(err).Warn("falling back to placeholder content")

		return m.PlaceholderContent(record)
	}

	return fields
}

// writeBack refuses to clobber a file that changed on disk since it was
// read, then replaces it atomically.
func (w *workflow) writeBack(file fileTarget, fingerprint string, buffer []byte) error {
	current, err := w.fs.HashFile(file.abs)
	if err != nil {
		return fmt.Errorf("re-reading %s: %w", file.rel, err)
	}

	if current != fingerprint {
		return fmt.Errorf("%s changed on disk during the run", file.rel)
	}

	if err := w.fs.WriteFileAtomic(file.abs, buffer, 0o644); err != nil {
		return &adapter.WriteError{Path: file.abs, Err: err}
	}

	return nil
}

// recordRun persists the run summary. History is best effort and never
// fails the run.
func (w *workflow) recordRun(report m.RunReport, opts RunOptions, docs []m.AppliedDocstring) {
	if w.history == nil || report.DryRun {
		return
	}

	record := m.RunRecord{
		ID:        report.ID,
		StartedAt: report.Started,
		Root:      opts.Root,
		Language:  opts.Language,
		Style:     opts.Style,
		Written:   report.Written(),
		Skipped:   report.Skipped(),
		Failed:    report.Failed(),
		Functions: report.Functions(),
	}

	if err := w.history.SaveRun(record, docs); err != nil {
		w.log.WithError(err).Warn("failed to record run history")
	}
}

// existingText pulls the current docstring bytes for display next to a
// replacement candidate.
func existingText(src []byte, placement m.Placement) string {
	if placement.Kind != m.EditReplace {
		return ""
	}

	return string(src[placement.Range.Start:placement.Range.End])
}

func quitRequested(responses []m.ConfirmResponse) bool {
	for _, resp := range responses {
		if resp.Decision == m.DecisionQuit {
			return true
		}
	}

	return false
}

// appliedDocs lists the docstrings that made it into the buffer, for the
// run history.
func appliedDocs(rel m.Path, candidates []m.Candidate, responses []m.ConfirmResponse) []m.AppliedDocstring {
	docs := make([]m.AppliedDocstring, 0, len(candidates))

	for i, candidate := range candidates {
		text, ok := resolve(candidate.Op, responses, i)
		if !ok {
			continue
		}

		docs = append(docs, m.AppliedDocstring{
			Name:      candidate.Record.QualifiedName,
			Path:      rel,
			Line:      candidate.Record.Line,
			Docstring: text,
		})
	}

	return docs
}

// runID returns a short unique identifier for one run.
func runID() string {
	return uuid.New().String()[:8]
}

func skipped(path m.Path, reason string) m.FileResult {
	return m.FileResult{Path: path, Status: m.StatusSkipped, Reason: reason}
}

func failed(path m.Path, err error) m.FileResult {
	return m.FileResult{Path: path, Status: m.StatusFailed, Reason: err.Error()}
}
