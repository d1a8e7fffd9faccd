package palette

import (
	"fmt"
	"strings"
)

// DetectBackend returns the first launcher from Names found in PATH.
func DetectBackend() (string, error) {
	for _, name := range Names {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(Names, ", "))
}
