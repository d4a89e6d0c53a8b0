package cli

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"
)

// commandIO carries the streams a subcommand talks to. Interactive selects
// the terminal UI prompts over plain line reads.
type commandIO struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
	Live        bool
}

func defaultIO() commandIO {
	return commandIO{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: stdinIsTTY() && stdoutIsTTY(),
		Live:        stdoutIsTTY(),
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stdinIsTTY() bool {
	return isCharDevice(os.Stdin)
}

func stdoutIsTTY() bool {
	return isCharDevice(os.Stdout)
}

func isCharDevice(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func formatBytesIEC(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for q := n / unit; q >= unit; q /= unit {
		div *= unit
		exp++
	}
	value := float64(n) / float64(div)
	suffix := "KMGTPE"[exp]
	return strconv.FormatFloat(value, 'f', 1, 64) + " " + string(suffix) + "iB"
}

// maskToken keeps the token prefix and last four characters.
func maskToken(token string) string {
	t := strings.TrimSpace(token)
	if t == "" {
		return "(unset)"
	}
	prefix := ""
	if i := strings.Index(t, "-"); i > 0 && i < 6 {
		prefix = t[:i+1]
	}
	if len(t) <= len(prefix)+4 {
		return prefix + "****"
	}
	return prefix + "****" + t[len(t)-4:]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
