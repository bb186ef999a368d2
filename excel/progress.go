package excel

import "fmt"

// Progress collects the human-readable processing log that the CLI prints
// after a run. It is not safe for concurrent use; a run owns its Progress.
type Progress struct {
	lines []string
}

// Logf records one formatted log line.
func (p *Progress) Logf(format string, args ...any) {
	p.lines = append(p.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the recorded log.
func (p *Progress) Lines() []string {
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}
