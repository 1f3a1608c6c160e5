package ui

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EditInExternalEditor writes value to a temporary file, runs editorCmd on
// it and returns the edited text. changed is false when the file came back
// identical or empty. The caller suspends the screen around the call.
func EditInExternalEditor(value, editorCmd, ext string) (edited string, changed bool, err error) {
	tmpFile, err := os.CreateTemp("", "hierarchy-diff-*"+ext)
	if err != nil {
		return "", false, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	content := value
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", false, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpFile.Close()

	// sh -c so that editor commands with flags like "vim --clean" work
	cmd := exec.Command("sh", "-c", ResolveEditor(editorCmd)+" "+tmpPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", false, fmt.Errorf("failed to launch editor: %w", err)
		}
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to read edited file: %w", err)
	}
	if len(data) == 0 || string(data) == content {
		return value, false, nil
	}

	edited = string(data)
	if !strings.HasSuffix(value, "\n") {
		edited = strings.TrimSuffix(edited, "\n")
	}
	return edited, edited != value, nil
}

// ResolveEditor picks the configured editor, then $EDITOR, then vi
func ResolveEditor(configured string) string {
	if configured != "" {
		return configured
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}
