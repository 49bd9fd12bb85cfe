// Package directive extracts the annotations that drive a compiler test:
// RUN commands (`//# RUN: ...`) and expected diagnostics (`//~ ERROR: ...`).
package directive

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"fortio.org/safecast"
	"github.com/google/uuid"

	"peonytest/internal/diag"
	"peonytest/internal/platform"
	"peonytest/internal/source"
)

// DefaultCompilerName is the leading RUN token that designates the compiler
// under test.
const DefaultCompilerName = "peony"

var (
	runRE    = regexp.MustCompile(`(?m)//#\s*RUN(\(\s*(?P<platform>\w+)\s*\))?:(?P<command>.*)$`)
	expectRE = regexp.MustCompile(`(?m)//~(?P<modifier>!|\^+|\|)?\s*(?P<severity>ERROR|WARNING|NOTE):(?P<message>.*)$`)

	runPlatform    = runRE.SubexpIndex("platform")
	runCommand     = runRE.SubexpIndex("command")
	expectModifier = expectRE.SubexpIndex("modifier")
	expectSeverity = expectRE.SubexpIndex("severity")
	expectMessage  = expectRE.SubexpIndex("message")
)

// Options configures how RUN commands are resolved.
type Options struct {
	// TestFile is the absolute path of the test file; placeholders expand
	// relative to it.
	TestFile string

	// Name is the display name of the test, used in %t paths.
	Name string

	// TmpDir is where %t paths are created.
	TmpDir string

	// CompilerName is the RUN token replaced by CompilerExe (default "peony").
	CompilerName string

	// CompilerExe is the resolved compiler executable; empty keeps CompilerName.
	CompilerExe string

	// Debug wraps compiler invocations with the host debugger.
	Debug bool

	// Host is the platform identifier RUN guards are checked against
	// (default platform.Host()).
	Host string

	// Unique returns a fresh unique token for each %t (default uuid.NewString).
	Unique func() string
}

// Set is everything a test file declares.
type Set struct {
	Commands []RunCommand
	Expected []diag.Expected
}

// Parse extracts RUN commands and expected diagnostics from f. It fails with
// an *Error when the file declares no command or an annotation is malformed.
func Parse(f *source.File, opts Options) (*Set, error) {
	opts = opts.withDefaults()
	text := f.Text()

	commands, err := parseCommands(f, text, &opts)
	if err != nil {
		return nil, err
	}
	if len(commands) == 0 {
		return nil, malformed(f.Path, 0, "no RUN command for this platform (%s)", opts.Host)
	}

	expected, err := parseExpected(f, text)
	if err != nil {
		return nil, err
	}
	return &Set{Commands: commands, Expected: expected}, nil
}

func (o Options) withDefaults() Options {
	if o.CompilerName == "" {
		o.CompilerName = DefaultCompilerName
	}
	if o.Host == "" {
		o.Host = platform.Host()
	}
	if o.Name == "" {
		o.Name = strings.TrimSuffix(filepath.Base(o.TestFile), filepath.Ext(o.TestFile))
	}
	if o.Unique == nil {
		o.Unique = uuid.NewString
	}
	return o
}

// tempPath returns a fresh %t value.
func (o *Options) tempPath() string {
	return filepath.Join(o.TmpDir, fmt.Sprintf("tmp-%s-%s", o.Name, o.Unique()))
}

func parseCommands(f *source.File, text string, opts *Options) ([]RunCommand, error) {
	var (
		commands   []RunCommand
		commonArgs []string
		haveCommon bool
	)
	for _, m := range runRE.FindAllStringSubmatchIndex(text, -1) {
		guard := submatch(text, m, runPlatform)
		if !platform.Matches(guard, opts.Host) {
			continue
		}
		line := f.LineOf(m[0])

		raw := substitute(submatch(text, m, runCommand), opts.TestFile, opts.tempPath)
		argv := strings.Fields(raw)
		if len(argv) == 0 {
			return nil, malformed(f.Path, line, "empty RUN command")
		}

		if argv[0] == opts.CompilerName {
			if !haveCommon {
				args, err := CommonArgs(filepath.Dir(opts.TestFile))
				if err != nil {
					return nil, err
				}
				commonArgs, haveCommon = args, true
			}
			argv = spliceCompiler(argv, opts.CompilerExe, commonArgs)
			if opts.Debug {
				argv = platform.Debugger(opts.Host).Wrap(argv)
			}
		}
		commands = append(commands, RunCommand{Argv: argv, Line: line})
	}
	return commands, nil
}

// spliceCompiler replaces the compiler token with exe (when known) and inserts
// the inherited arguments right after it.
func spliceCompiler(argv []string, exe string, common []string) []string {
	out := make([]string, 0, len(argv)+len(common))
	if exe != "" {
		out = append(out, exe)
	} else {
		out = append(out, argv[0])
	}
	out = append(out, common...)
	return append(out, argv[1:]...)
}

func parseExpected(f *source.File, text string) ([]diag.Expected, error) {
	var expected []diag.Expected
	for _, m := range expectRE.FindAllStringSubmatchIndex(text, -1) {
		own := f.LineOf(m[0])
		line, err := resolveLine(submatch(text, m, expectModifier), own, expected)
		if err != nil {
			return nil, malformed(f.Path, own, "%v", err)
		}
		e, err := diag.NewExpected(submatch(text, m, expectSeverity), submatch(text, m, expectMessage), line)
		if err != nil {
			return nil, malformed(f.Path, own, "%v", err)
		}
		expected = append(expected, e)
	}
	return expected, nil
}

// resolveLine applies a line modifier to the line an annotation sits on.
//
//	(none)  the annotation's own line
//	!       no line
//	|       the line of the previous expected diagnostic
//	^^^     one line up per caret
func resolveLine(modifier string, own uint32, previous []diag.Expected) (diag.Pos, error) {
	switch {
	case modifier == "":
		return diag.At(uint64(own)), nil
	case modifier == "!":
		return diag.NoPos, nil
	case modifier == "|":
		if len(previous) == 0 {
			return diag.NoPos, fmt.Errorf("'|' modifier without a previous expected diagnostic")
		}
		prev := previous[len(previous)-1].Line
		if !prev.Set {
			return diag.NoPos, fmt.Errorf("'|' modifier follows an expected diagnostic without a line")
		}
		return prev, nil
	default:
		up, err := safecast.Conv[uint32](len(modifier))
		if err != nil || up >= own {
			return diag.NoPos, fmt.Errorf("'%s' points above the first line (annotation on line %d)", modifier, own)
		}
		return diag.At(uint64(own - up)), nil
	}
}

func submatch(text string, m []int, g int) string {
	if m[2*g] < 0 {
		return ""
	}
	return text[m[2*g]:m[2*g+1]]
}
