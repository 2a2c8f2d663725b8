// Package repl identifies which Python REPL flavor a pane is running.
//
// Detection is deterministic string matching against the pane's current
// command name and its captured content. There is no process inspection and
// no guessing beyond these fingerprints: we know what these REPLs print
// because their prompts are stable, documented interfaces.
package repl

import (
	"fmt"
	"strconv"
	"strings"
)

// Flavor is a REPL family.
type Flavor string

const (
	Python   Flavor = "python"
	IPython  Flavor = "ipython"
	Ptpython Flavor = "ptpython"
	Unknown  Flavor = "unknown"
)

// ParseFlavor maps a user-supplied name to a Flavor.
func ParseFlavor(s string) (Flavor, bool) {
	switch Flavor(strings.ToLower(strings.TrimSpace(s))) {
	case Python:
		return Python, true
	case IPython:
		return IPython, true
	case Ptpython:
		return Ptpython, true
	}
	return Unknown, false
}

// DetectCommand infers the flavor from a pane's current command name, as
// reported by the multiplexer. Jupyter consoles run the IPython machinery,
// so they group with ipython; bpython keeps vanilla line editing, so it
// groups with python.
func DetectCommand(cmd string) Flavor {
	name := baseName(cmd)
	switch {
	case strings.HasPrefix(name, "ipython"), strings.HasPrefix(name, "ipy"),
		strings.HasPrefix(name, "jupyter"):
		return IPython
	case strings.HasPrefix(name, "ptpython"), strings.HasPrefix(name, "ptipython"):
		return Ptpython
	case strings.HasPrefix(name, "python"), strings.HasPrefix(name, "bpython"):
		return Python
	}
	return Unknown
}

// DetectContent looks for REPL fingerprints in captured pane content.
// IPython's numbered "In [" prompt is the strongest signal; the classic
// ">>>" prompt marks a vanilla python session.
func DetectContent(content string) Flavor {
	lower := strings.ToLower(content)
	if strings.Contains(lower, "in [") || strings.Contains(lower, "ipython") {
		return IPython
	}
	if strings.Contains(content, ">>>") {
		return Python
	}
	return Unknown
}

// Detect combines both signals. The command name wins, except that a python
// process whose screen shows IPython prompts is upgraded: "python -m IPython"
// reports itself as python.
func Detect(cmd, content string) Flavor {
	f := DetectCommand(cmd)
	if f == Unknown {
		return DetectContent(content)
	}
	if f == Python && DetectContent(content) == IPython {
		return IPython
	}
	return f
}

// Version is an interpreter version pair. The zero value means the command
// name carried no version at all.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ExtractVersion pulls an interpreter version out of command names like
// "python3.12" or "/usr/bin/python3". A bare minor-less name ("python3")
// yields 3.0; a versionless name ("python") reports ok false.
func ExtractVersion(cmd string) (Version, bool) {
	name := baseName(cmd)
	if !strings.HasPrefix(name, "python") {
		return Version{}, false
	}
	major, rest, ok := leadingInt(name[len("python"):])
	if !ok {
		return Version{}, false
	}
	v := Version{Major: major}
	if strings.HasPrefix(rest, ".") {
		if minor, _, ok := leadingInt(rest[1:]); ok {
			v.Minor = minor
		}
	}
	return v, true
}

// SupportsBracketedPaste reports whether a flavor accepts bracketed paste.
// IPython and ptpython always do. The vanilla python REPL gained it with
// the 3.13 line editor; older versions mangle indented pastes and get the
// line-by-line fallback instead. Without a version signal the answer is
// optimistic, since a wrong guess is recoverable with --no-bracketed-paste.
func SupportsBracketedPaste(f Flavor, v Version) bool {
	switch f {
	case IPython, Ptpython:
		return true
	case Python:
		if v == (Version{}) {
			return true
		}
		return v.Major > 3 || (v.Major == 3 && v.Minor >= 13)
	}
	return true
}

func baseName(cmd string) string {
	name := strings.ToLower(strings.TrimSpace(cmd))
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// leadingInt parses the digit run at the start of s.
func leadingInt(s string) (value int, rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s, false
	}
	return n, s[i:], true
}
