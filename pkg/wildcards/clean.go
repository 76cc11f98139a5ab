package wildcards

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultWrap marks a wildcard reference inside a prompt, as in __colors__.
const DefaultWrap = "__"

var (
	// ErrInvalidWildcard is returned for names that are absolute or climb out
	// of the wildcard root.
	ErrInvalidWildcard = errors.New("wildcards: invalid wildcard")
	// ErrNoRoot is returned by path helpers when the manager has no root.
	ErrNoRoot = errors.New("wildcards: manager has no root directory")
	// ErrUnsupportedPrompt is returned by the generators for prompts that are
	// neither a bare wildcard reference nor literal text.
	ErrUnsupportedPrompt = errors.New("wildcards: prompt syntax not supported")
)

// Clean strips the wrap markers from a wildcard, normalizes backslashes to
// forward slashes and rejects absolute names or ".." segments.
func Clean(wildcard, wrap string) (string, error) {
	name := strings.TrimSpace(wildcard)
	if wrap != "" {
		name = strings.TrimPrefix(name, wrap)
		name = strings.TrimSuffix(name, wrap)
	}
	name = strings.ReplaceAll(name, `\`, "/")

	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidWildcard)
	}
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidWildcard, wildcard)
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q leaves the wildcard root", ErrInvalidWildcard, wildcard)
		}
	}
	return name, nil
}
