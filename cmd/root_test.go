package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/quill/internal/config"
	"github.com/mouse-blink/quill/internal/domain"
	m "github.com/mouse-blink/quill/internal/model"
)

// fakeWorkflow records the options each call received and plays back
// canned reports.
type fakeWorkflow struct {
	runOpts     []domain.RunOptions
	checkOpts   []domain.CheckOptions
	runReport   m.RunReport
	checkReport m.CheckReport
	runErr      error
	checkErr    error
}

func (f *fakeWorkflow) Run(_ context.Context, opts domain.RunOptions) (m.RunReport, error) {
	f.runOpts = append(f.runOpts, opts)

	return f.runReport, f.runErr
}

func (f *fakeWorkflow) Check(_ context.Context, opts domain.CheckOptions) (m.CheckReport, error) {
	f.checkOpts = append(f.checkOpts, opts)

	return f.checkReport, f.checkErr
}

// fakeUI records everything shown to it.
type fakeUI struct {
	runReports   []m.RunReport
	checkReports []m.CheckReport
	histories    [][]m.RunRecord
}

func (f *fakeUI) Confirm(_ m.Path, candidates []m.Candidate) ([]m.ConfirmResponse, error) {
	return make([]m.ConfirmResponse, len(candidates)), nil
}

func (f *fakeUI) ShowRunReport(report m.RunReport) {
	f.runReports = append(f.runReports, report)
}

func (f *fakeUI) ShowCheckReport(report m.CheckReport) {
	f.checkReports = append(f.checkReports, report)
}

func (f *fakeUI) ShowHistory(runs []m.RunRecord) {
	f.histories = append(f.histories, runs)
}

// install swaps the package collaborators for one test and restores them
// afterwards.
func install(t *testing.T, wf domain.Workflow, view *fakeUI) {
	t.Helper()

	originalWorkflow, originalUI := workflow, ui
	workflow, ui = wf, view

	t.Cleanup(func() {
		workflow, ui = originalWorkflow, originalUI
	})
}

// resetFlags returns every package-level flag variable to its default so
// tests do not leak state into each other.
func resetFlags(t *testing.T) {
	t.Helper()

	cfgFileFlag = ""
	logLevelFlag = ""

	runFilesFlags = nil
	runFunctionsFlags = nil
	runIgnoreFilesFlags = nil
	runIgnoreFunctionsFlags = nil
	runLanguageFlag = ""
	runStyleFlag = ""
	runProjectDirFlag = ""
	runForceAllFlag = false
	runOverwriteFlag = false
	runDryRunFlag = false
	runNoSummaryFlag = false
	runParallelFlag = 1
	runTUIFlag = false
	runFailOnNoMatchFlag = false

	checkFilesFlags = nil
	checkFunctionsFlags = nil
	checkIgnoreFilesFlags = nil
	checkIgnoreFunctionsFlags = nil
	checkLanguageFlag = ""
	checkProjectDirFlag = ""
	checkFailOnNoMatchFlag = false

	watchFilesFlags = nil
	watchFunctionsFlags = nil
	watchIgnoreFilesFlags = nil
	watchIgnoreFunctionsFlags = nil
	watchLanguageFlag = ""
	watchProjectDirFlag = ""
	watchDebounceFlag = 300

	historyLimitFlag = 10
	historyProjectDirFlag = ""
}

// execute runs a freshly built command with quiet output streams.
func execute(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()

	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	return cmd.Execute()
}

// writeTestConfig drops a .quill.yaml into the current directory.
func writeTestConfig(t *testing.T, yaml string) {
	t.Helper()

	require.NoError(t, os.WriteFile(".quill.yaml", []byte(yaml), 0o644))
}

func TestResolveConfig_LayersFileAndFlags(t *testing.T) {
	resetFlags(t)
	t.Chdir(t.TempDir())

	configPath := ".quill.yaml"
	require.NoError(t, os.WriteFile(configPath, []byte("style: numpy\nparallel: 3\n"), 0o644))

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := resolveConfig(config.Config{})
		require.NoError(t, err)
		assert.Equal(t, "numpy", cfg.Style)
		assert.Equal(t, 3, cfg.Parallel)
		assert.Equal(t, string(m.LanguagePython), cfg.Language)
	})

	t.Run("flags override file", func(t *testing.T) {
		cfg, err := resolveConfig(config.Config{Style: "PEP", Parallel: 8})
		require.NoError(t, err)
		assert.Equal(t, "PEP", cfg.Style)
		assert.Equal(t, 8, cfg.Parallel)
	})

	t.Run("explicit config flag wins over discovery", func(t *testing.T) {
		other := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(other, []byte("style: basic\n"), 0o644))

		cfgFileFlag = other
		defer func() { cfgFileFlag = "" }()

		cfg, err := resolveConfig(config.Config{})
		require.NoError(t, err)
		assert.Equal(t, "basic", cfg.Style)
	})
}

func TestResolveConfig_LanguagePicksConventionalStyle(t *testing.T) {
	resetFlags(t)
	t.Chdir(t.TempDir())

	cfg, err := resolveConfig(config.Config{Language: "csharp"})
	require.NoError(t, err)
	assert.Equal(t, string(m.StyleXML), cfg.Style)

	cfg, err = resolveConfig(config.Config{Language: "go"})
	require.NoError(t, err)
	assert.Equal(t, string(m.StyleGodoc), cfg.Style)
}

func TestResolveConfig_RejectsStyleLanguageMismatch(t *testing.T) {
	resetFlags(t)
	t.Chdir(t.TempDir())

	_, err := resolveConfig(config.Config{Language: "python", Style: "xml"})
	require.Error(t, err)

	var cfgErr *config.ConfigError

	assert.ErrorAs(t, err, &cfgErr)
}

func TestResolveConfig_BadFileFails(t *testing.T) {
	resetFlags(t)
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile(".quill.yaml", []byte(":\nnot yaml ["), 0o644))

	_, err := resolveConfig(config.Config{})
	require.Error(t, err)
}

func TestProjectRoot_Precedence(t *testing.T) {
	resetFlags(t)

	cfg := config.Config{ProjectDir: "/configured"}

	assert.Equal(t, m.Path("/positional"), projectRoot(cfg, []string{"/positional"}))
	assert.Equal(t, m.Path("/configured"), projectRoot(cfg, nil))
}

func TestProjectRoot_FindsConfigDirectory(t *testing.T) {
	resetFlags(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".quill.yaml"), []byte("style: basic\n"), 0o644))

	nested := filepath.Join(root, "pkg", "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	got := projectRoot(config.Config{}, nil)

	// The walk resolves through the current directory, so compare resolved
	// paths to tolerate symlinked temp dirs.
	wantResolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	gotResolved, err := filepath.EvalSymlinks(string(got))
	require.NoError(t, err)

	assert.Equal(t, wantResolved, gotResolved)
}

func TestExecute_MapsExitCodes(t *testing.T) {
	resetFlags(t)
	t.Chdir(t.TempDir())

	wf := &fakeWorkflow{runErr: domain.ErrNoFilesMatched}
	install(t, wf, &fakeUI{})

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"run", "--force-all", "."})

	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.Equal(t, 2, Execute())

	wf.runErr = nil
	wf.runReport = m.RunReport{Results: []m.FileResult{{Path: "a.py", Status: m.StatusFailed, Reason: "boom"}}}

	assert.Equal(t, 1, Execute())

	wf.runReport = m.RunReport{}

	assert.Equal(t, 0, Execute())
}

func TestConfigureLogger_Levels(t *testing.T) {
	defer configureLogger("info")

	configureLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	configureLogger("warning")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	configureLogger("error")
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())

	configureLogger("")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestDefaultStyleFor(t *testing.T) {
	assert.Equal(t, m.StyleBasic, defaultStyleFor(m.LanguagePython))
	assert.Equal(t, m.StyleXML, defaultStyleFor(m.LanguageCSharp))
	assert.Equal(t, m.StyleGodoc, defaultStyleFor(m.LanguageGo))
}
