package repl

import "testing"

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		cmd  string
		want Flavor
	}{
		{"python", Python},
		{"python3", Python},
		{"python3.12", Python},
		{"/usr/bin/python3.13", Python},
		{"bpython", Python},
		{"ipython", IPython},
		{"ipython3", IPython},
		{"ipy", IPython},
		{"jupyter-console", IPython},
		{"ptpython", Ptpython},
		{"ptipython", Ptpython},
		{"zsh", Unknown},
		{"vim", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		if got := DetectCommand(tt.cmd); got != tt.want {
			t.Errorf("DetectCommand(%q) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestDetectContentIPythonPrompt(t *testing.T) {
	content := `
Python 3.12.4 (main, Jun  7 2024, 00:00:00)
Type 'copyright', 'credits' or 'license' for more information
IPython 8.26.0 -- An enhanced Interactive Python. Type '?' for help.

In [1]: x = 42

In [2]:
`
	if got := DetectContent(content); got != IPython {
		t.Errorf("DetectContent() = %q, want %q", got, IPython)
	}
}

func TestDetectContentVanillaPrompt(t *testing.T) {
	content := `
Python 3.11.9 (main, Apr  2 2024, 00:00:00) on linux
Type "help", "copyright", "credits" or "license" for more information.
>>> x = 42
>>>
`
	if got := DetectContent(content); got != Python {
		t.Errorf("DetectContent() = %q, want %q", got, Python)
	}
}

func TestDetectContentUnknown(t *testing.T) {
	if got := DetectContent("$ ls\nfoo bar\n$"); got != Unknown {
		t.Errorf("DetectContent() = %q, want %q", got, Unknown)
	}
}

func TestDetectCommandWins(t *testing.T) {
	got := Detect("ptpython", "In [1]: x")
	if got != Ptpython {
		t.Errorf("Detect() = %q, want %q", got, Ptpython)
	}
}

func TestDetectUpgradesPythonToIPython(t *testing.T) {
	// "python -m IPython" reports a python process but renders IPython prompts.
	got := Detect("python3", "IPython 8.26.0\n\nIn [1]:")
	if got != IPython {
		t.Errorf("Detect() = %q, want %q", got, IPython)
	}
}

func TestDetectFallsBackToContent(t *testing.T) {
	got := Detect("tmux", ">>> x = 1")
	if got != Python {
		t.Errorf("Detect() = %q, want %q", got, Python)
	}
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		cmd    string
		want   Version
		wantOK bool
	}{
		{"python3.12", Version{3, 12}, true},
		{"python3.13", Version{3, 13}, true},
		{"python3", Version{3, 0}, true},
		{"python2.7", Version{2, 7}, true},
		{"/usr/local/bin/python3.11", Version{3, 11}, true},
		{"python3.12-dbg", Version{3, 12}, true},
		{"python", Version{}, false},
		{"ipython3", Version{}, false},
		{"zsh", Version{}, false},
	}
	for _, tt := range tests {
		got, ok := ExtractVersion(tt.cmd)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExtractVersion(%q) = %v, %v, want %v, %v", tt.cmd, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSupportsBracketedPaste(t *testing.T) {
	tests := []struct {
		name    string
		flavor  Flavor
		version Version
		want    bool
	}{
		{"ipython", IPython, Version{}, true},
		{"ptpython", Ptpython, Version{}, true},
		{"python 3.13", Python, Version{3, 13}, true},
		{"python 3.14", Python, Version{3, 14}, true},
		{"python 3.12", Python, Version{3, 12}, false},
		{"python 2.7", Python, Version{2, 7}, false},
		{"python without version", Python, Version{}, true},
		{"unknown flavor", Unknown, Version{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SupportsBracketedPaste(tt.flavor, tt.version); got != tt.want {
				t.Errorf("SupportsBracketedPaste(%q, %v) = %v, want %v", tt.flavor, tt.version, got, tt.want)
			}
		})
	}
}

func TestParseFlavor(t *testing.T) {
	tests := []struct {
		in     string
		want   Flavor
		wantOK bool
	}{
		{"python", Python, true},
		{"IPython", IPython, true},
		{" ptpython ", Ptpython, true},
		{"ruby", Unknown, false},
		{"", Unknown, false},
	}
	for _, tt := range tests {
		got, ok := ParseFlavor(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFlavor(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestVersionString(t *testing.T) {
	if got := (Version{3, 12}).String(); got != "3.12" {
		t.Errorf("Version.String() = %q, want %q", got, "3.12")
	}
}
