package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/qcore/internal/ir"
	"github.com/roach88/qcore/internal/store"
)

// Error codes for load failures
const (
	ErrCodeNotFound    = "E001" // file or directory not found
	ErrCodeNoFiles     = "E002" // directory holds no CUE files
	ErrCodeLoadFailed  = "E003" // CUE loading failed
	ErrCodeBuildFailed = "E004" // CUE build failed
	ErrCodeCompile     = "E005" // fixture structure invalid
	ErrCodeValidation  = "E006" // fixture failed validation
	ErrCodeApply       = "E007" // writing to the store failed
)

// LoadError is returned by every loading function.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadString compiles fixture source held in memory.
func LoadString(src string) ([]Table, error) {
	return compileRoot(cuecontext.New().CompileString(src, cue.Filename("fixture.cue")))
}

// LoadFile compiles a single fixture file.
func LoadFile(path string) ([]Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading fixture: %v", err), Err: err}
	}
	return compileRoot(cuecontext.New().CompileBytes(data, cue.Filename(path)))
}

// LoadDir builds every CUE file in dir as one package instance, so tables
// may be split across files.
func LoadDir(dir string) ([]Table, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("fixture directory: %v", err), Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil || len(matches) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err), Err: inst.Err}
	}

	return compileRoot(cuecontext.New().BuildInstance(inst))
}

// Load reads path as a directory or a single file.
func Load(path string) ([]Table, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

func compileRoot(v cue.Value) ([]Table, error) {
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", formatCUEError(err)), Err: err}
	}
	tables, err := CompileFixture(v)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCompile, Message: err.Error(), Err: err}
	}
	if verrs := Validate(tables); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, e := range verrs {
			msgs[i] = e.Error()
		}
		return nil, &LoadError{Code: ErrCodeValidation, Message: strings.Join(msgs, "; ")}
	}
	return tables, nil
}

// Sink is where Apply writes tables. *store.Store implements it.
type Sink interface {
	CreateTable(ctx context.Context, name string, columns []store.Column) error
	InsertRows(ctx context.Context, table string, rows []ir.Record) error
}

// Apply creates each table and inserts its rows, in table order.
func Apply(ctx context.Context, sink Sink, tables []Table) error {
	for _, t := range tables {
		if err := sink.CreateTable(ctx, t.Name, t.Columns); err != nil {
			return &LoadError{Code: ErrCodeApply, Message: fmt.Sprintf("create %s: %v", t.Name, err), Err: err}
		}
		if len(t.Rows) == 0 {
			continue
		}
		if err := sink.InsertRows(ctx, t.Name, t.Rows); err != nil {
			return &LoadError{Code: ErrCodeApply, Message: fmt.Sprintf("fill %s: %v", t.Name, err), Err: err}
		}
	}
	return nil
}
