package native

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Runner executes a metadata query restricted to scopes and returns its
// raw newline-separated output.
type Runner interface {
	Run(ctx context.Context, scopes []string, predicate string) ([]byte, error)
}

// MDFind runs the Spotlight command-line tool.
type MDFind struct {
	// Path is the binary to run. Default: "mdfind"
	Path string
}

var _ Runner = MDFind{}

// Run executes mdfind -onlyin s1 -onlyin s2 ... predicate.
func (m MDFind) Run(ctx context.Context, scopes []string, predicate string) ([]byte, error) {
	bin := m.Path
	if bin == "" {
		bin = "mdfind"
	}
	args := make([]string, 0, 2*len(scopes)+1)
	for _, s := range scopes {
		args = append(args, "-onlyin", s)
	}
	args = append(args, predicate)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", bin, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out, nil
}
