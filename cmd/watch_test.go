package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/quill/internal/domain"
	m "github.com/mouse-blink/quill/internal/model"
)

// syncWorkflow is a fakeWorkflow safe to call from the watch loop's timer
// goroutine.
type syncWorkflow struct {
	mu        sync.Mutex
	checkOpts []domain.CheckOptions
	notify    chan struct{}
}

func newSyncWorkflow() *syncWorkflow {
	return &syncWorkflow{notify: make(chan struct{}, 1)}
}

func (s *syncWorkflow) Run(context.Context, domain.RunOptions) (m.RunReport, error) {
	return m.RunReport{}, nil
}

func (s *syncWorkflow) Check(_ context.Context, opts domain.CheckOptions) (m.CheckReport, error) {
	s.mu.Lock()
	s.checkOpts = append(s.checkOpts, opts)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}

	return m.CheckReport{}, nil
}

func (s *syncWorkflow) snapshot() []domain.CheckOptions {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.CheckOptions(nil), s.checkOpts...)
}

func TestWatchCmd_RechecksChangedFiles(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	t.Chdir(dir)

	wf := newSyncWorkflow()
	install(t, wf, &fakeUI{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := newWatchCmd()
	cmd.SetContext(ctx)

	done := make(chan error, 1)

	go func() {
		done <- execute(t, cmd, "--debounce", "50", dir)
	}()

	// Give the watcher time to attach before triggering an event.
	time.Sleep(300 * time.Millisecond)

	source := filepath.Join(dir, "calc.py")
	require.NoError(t, os.WriteFile(source, []byte("def add(a, b):\n    return a + b\n"), 0o644))

	select {
	case <-wf.notify:
	case <-time.After(5 * time.Second):
		t.Fatal("no check triggered after file change")
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on context cancel")
	}

	opts := wf.snapshot()
	require.NotEmpty(t, opts)
	require.NotEmpty(t, opts[0].Paths)
	assert.True(t, strings.HasSuffix(string(opts[0].Paths[0]), "calc.py"))
	assert.Equal(t, m.LanguagePython, opts[0].Language)
}

func TestRelevantSource(t *testing.T) {
	assert.True(t, relevantSource("pkg/calc.py", m.LanguagePython))
	assert.False(t, relevantSource("pkg/calc.pyc", m.LanguagePython))
	assert.False(t, relevantSource("pkg/calc.py", m.LanguageGo))
	assert.True(t, relevantSource("internal/app.go", m.LanguageGo))
	assert.False(t, relevantSource("notes.txt", m.LanguagePython))
}

func TestWatchFlagConfig(t *testing.T) {
	resetFlags(t)

	watchFilesFlags = []string{"src/*"}
	watchLanguageFlag = "csharp"

	overlay := watchFlagConfig()
	assert.Equal(t, []string{"src/*"}, overlay.Files)
	assert.Equal(t, "csharp", overlay.Language)
	assert.Empty(t, overlay.Style)
}
