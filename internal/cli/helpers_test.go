package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/json"
)

// run executes the root command with args and stdin, returning stdout and
// stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand()
	cmd.Reader = strings.NewReader(stdin)
	cmd.Writer = &stdout
	cmd.ErrWriter = &stderr
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return stdout.String(), stderr.String(), err
}

// parseJSON decodes command output for comparison.
func parseJSON(t *testing.T, out string) interchange.Value {
	t.Helper()
	v, err := json.New().Unmarshal([]byte(out))
	require.NoError(t, err, "output is not JSON: %s", out)
	return v
}
