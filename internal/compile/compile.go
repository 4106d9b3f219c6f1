// Package compile runs the front end pipeline: scanning, parsing and
// semantic analysis of PSI source files.
package compile

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/psi/internal/syntax"
	"github.com/you-not-fish/psi/internal/types2"
)

// Result is the outcome of compiling one file.
type Result struct {
	Filename string
	Program  *syntax.Program // nil if Err is set
	Err      error
}

// Source scans, parses and checks the program read from r.
// The first diagnostic is returned as a *syntax.Error.
func Source(filename string, r io.Reader) (*syntax.Program, error) {
	return source(log.Default(), filename, r, true)
}

// Parse scans and parses the program read from r without checking it.
func Parse(filename string, r io.Reader) (*syntax.Program, error) {
	return source(log.Default(), filename, r, false)
}

func source(logger *log.Logger, filename string, r io.Reader, check bool) (*syntax.Program, error) {
	start := time.Now()
	s, err := syntax.NewScanner(filename, r)
	if err != nil {
		return nil, err
	}
	prog, err := syntax.NewParser(s).Parse()
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed", "file", filename, "lines", len(s.Lines()), "duration", time.Since(start))
	if !check {
		return prog, nil
	}

	start = time.Now()
	if err := types2.Check(prog, &types2.Config{Lines: s.Lines()}); err != nil {
		return nil, err
	}
	logger.Debug("checked", "file", filename, "duration", time.Since(start))
	return prog, nil
}

// File compiles the named file. The logger is taken from ctx.
func File(ctx context.Context, filename string) (*syntax.Program, error) {
	return open(ctx, filename, true)
}

// ParseFile parses the named file without checking it.
func ParseFile(ctx context.Context, filename string) (*syntax.Program, error) {
	return open(ctx, filename, false)
}

func open(ctx context.Context, filename string, check bool) (*syntax.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()
	return source(log.FromContext(ctx), filename, f, check)
}

// Files compiles every file independently, at most jobs at a time (no limit
// if jobs <= 0). Results are in the order of filenames. Files not started
// when ctx is canceled report ctx.Err().
func Files(ctx context.Context, filenames []string, jobs int) []Result {
	results := make([]Result, len(filenames))

	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, name := range filenames {
		g.Go(func() error {
			prog, err := File(ctx, name)
			results[i] = Result{Filename: name, Program: prog, Err: err}
			return nil
		})
	}
	g.Wait()
	return results
}

// Tokens returns the tokens of the source read from r, up to and including
// the EOF token, together with the source listing. A lexical error stops
// the scan: its ERROR token is the last one returned and err describes it.
func Tokens(filename string, r io.Reader) (toks []syntax.Token, lines []string, err error) {
	s, err := syntax.NewScanner(filename, r)
	if err != nil {
		return nil, nil, err
	}
	for {
		tok := s.Next()
		toks = append(toks, tok)
		switch tok.Kind {
		case syntax.EOF:
			return toks, s.Lines(), nil
		case syntax.ERROR:
			return toks, s.Lines(), syntax.Errorf(tok.Pos, s.Lines(), "%s", tok.Text)
		}
	}
}
