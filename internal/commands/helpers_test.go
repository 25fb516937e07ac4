package commands_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/tyemirov/codepack/internal/config"
	"github.com/tyemirov/codepack/internal/types"
)

// countingFileSystem records how often each path is opened so tests can prove that a
// file was never read.
type countingFileSystem struct {
	afero.Fs
	mutex sync.Mutex
	opens map[string]int
}

func newCountingFileSystem(base afero.Fs) *countingFileSystem {
	return &countingFileSystem{Fs: base, opens: make(map[string]int)}
}

func (fileSystem *countingFileSystem) record(name string) int {
	fileSystem.mutex.Lock()
	defer fileSystem.mutex.Unlock()
	fileSystem.opens[filepath.Clean(name)]++
	return fileSystem.opens[filepath.Clean(name)]
}

func (fileSystem *countingFileSystem) openCount(name string) int {
	fileSystem.mutex.Lock()
	defer fileSystem.mutex.Unlock()
	return fileSystem.opens[filepath.Clean(name)]
}

func (fileSystem *countingFileSystem) Open(name string) (afero.File, error) {
	fileSystem.record(name)
	return fileSystem.Fs.Open(name)
}

func (fileSystem *countingFileSystem) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	fileSystem.record(name)
	return fileSystem.Fs.OpenFile(name, flag, perm)
}

var errSimulatedOpenFailure = errors.New("simulated open failure")

// failingOpenFileSystem lets each listed path be opened a fixed number of times and
// fails every later open of it.
type failingOpenFileSystem struct {
	*countingFileSystem
	allowedOpens map[string]int
}

func newFailingOpenFileSystem(base afero.Fs, allowedOpens map[string]int) *failingOpenFileSystem {
	return &failingOpenFileSystem{countingFileSystem: newCountingFileSystem(base), allowedOpens: allowedOpens}
}

func (fileSystem *failingOpenFileSystem) check(name string) error {
	openCount := fileSystem.record(name)
	allowed, limited := fileSystem.allowedOpens[filepath.Clean(name)]
	if limited && openCount > allowed {
		return &os.PathError{Op: "open", Path: name, Err: errSimulatedOpenFailure}
	}
	return nil
}

func (fileSystem *failingOpenFileSystem) Open(name string) (afero.File, error) {
	if openError := fileSystem.check(name); openError != nil {
		return nil, openError
	}
	return fileSystem.Fs.Open(name)
}

func (fileSystem *failingOpenFileSystem) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if openError := fileSystem.check(name); openError != nil {
		return nil, openError
	}
	return fileSystem.Fs.OpenFile(name, flag, perm)
}

// writeFiles creates every path in files below root with the given content.
func writeFiles(testingInstance *testing.T, fileSystem afero.Fs, root string, files map[string]string) {
	testingInstance.Helper()
	if mkdirError := fileSystem.MkdirAll(root, 0o755); mkdirError != nil {
		testingInstance.Fatalf("creating root %s: %v", root, mkdirError)
	}
	for relativePath, content := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
		if mkdirError := fileSystem.MkdirAll(filepath.Dir(fullPath), 0o755); mkdirError != nil {
			testingInstance.Fatalf("creating directory for %s: %v", fullPath, mkdirError)
		}
		if writeError := afero.WriteFile(fileSystem, fullPath, []byte(content), 0o644); writeError != nil {
			testingInstance.Fatalf("writing %s: %v", fullPath, writeError)
		}
	}
}

// buildConfiguration resolves a configuration for root the same way the CLI does.
func buildConfiguration(testingInstance *testing.T, root string, application config.ApplicationConfiguration) *types.Configuration {
	testingInstance.Helper()
	application.Root = root
	configuration, buildError := config.BuildConfiguration(application, config.BuildOptions{WorkingDirectory: root})
	if buildError != nil {
		testingInstance.Fatalf("building configuration: %v", buildError)
	}
	return configuration
}

func int64Pointer(value int64) *int64 {
	return &value
}

func boolPointer(value bool) *bool {
	return &value
}
