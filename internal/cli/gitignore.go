package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// addGitignoreEntry makes sure root/.gitignore lists path, given absolute or
// relative to root. It reports whether the file changed.
func addGitignoreEntry(root, path string) (bool, error) {
	entry, err := gitignoreEntry(root, path)
	if err != nil {
		return false, err
	}
	file := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(file)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read .gitignore: %w", err)
	}
	content := string(data)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == entry {
			return false, nil
		}
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(file, []byte(content+entry+"\n"), 0o644); err != nil {
		return false, fmt.Errorf("write .gitignore: %w", err)
	}
	return true, nil
}

// gitignoreEntry converts path to a slash-separated entry relative to root.
func gitignoreEntry(root, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("gitignore entry is empty")
	}
	rel := filepath.Clean(path)
	if filepath.IsAbs(rel) {
		var err error
		if rel, err = filepath.Rel(root, rel); err != nil {
			return "", fmt.Errorf("resolve %q: %w", path, err)
		}
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is outside %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}

func isGitRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
