package controller

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const fallbackEditor = "vi"

// editText opens the user's editor on the candidate text and returns what
// was saved. The result always ends with a newline so an edited block
// cannot jam the following source line.
func editText(text string) (string, error) {
	tmp, err := os.CreateTemp("", "quill-edit-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating edit buffer: %w", err)
	}

	name := tmp.Name()

	defer func() {
		_ = os.Remove(name)
	}()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing edit buffer: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing edit buffer: %w", err)
	}

	cmd := exec.Command(editorCommand(), name)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running editor: %w", err)
	}

	edited, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading edit buffer: %w", err)
	}

	return ensureTrailingNewline(string(edited)), nil
}

func editorCommand() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	return fallbackEditor
}

func ensureTrailingNewline(text string) string {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text
	}

	return text + "\n"
}
