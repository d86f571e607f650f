// Package filelock provides the run lock that keeps two findreplace processes
// off the same tree, and the atomic rewrite used when a file's content changes.
package filelock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrRunInProgress is returned by RunLock.Acquire when another process holds the lock.
var ErrRunInProgress = errors.New("another findreplace run is already in progress")

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created at the specified path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock acquires an exclusive lock on the file, blocking until the lock is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts to acquire an exclusive lock on the file without blocking.
// Returns true if the lock was acquired, false if the lock is held elsewhere.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// RunLock is a non-blocking, cross-process lock keyed by the root directory of a run.
type RunLock struct {
	lock *FileLock
	root string
}

// NewRunLock returns the run lock for root, stored in the OS temp directory.
func NewRunLock(root string) *RunLock {
	return NewRunLockInDir(os.TempDir(), root)
}

// NewRunLockInDir returns the run lock for root, stored in lockDir.
// The lock file name is a name-based UUID of the root, so every process
// targeting the same root agrees on it.
func NewRunLockInDir(lockDir, root string) *RunLock {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.Clean(root)))
	name := fmt.Sprintf("findreplace-%s.lock", id.String())
	return &RunLock{
		lock: NewFileLock(filepath.Join(lockDir, name)),
		root: root,
	}
}

// Path returns the lock file path.
func (rl *RunLock) Path() string {
	return rl.lock.Path()
}

// Acquire takes the lock or fails with ErrRunInProgress without waiting.
func (rl *RunLock) Acquire() error {
	acquired, err := rl.lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("%w on %s (lock: %s)", ErrRunInProgress, rl.root, rl.lock.Path())
	}
	return nil
}

// Release gives the lock back.
func (rl *RunLock) Release() error {
	return rl.lock.Unlock()
}

// AtomicWrite replaces the content of an existing file using a temp file and
// rename, so readers never observe a partial write. The new file gets perm
// and, where the platform and the caller's privileges allow, the owner and
// group of the file it replaces. The rename gives the file a new inode, so
// other hard links keep the old content.
//
// The target must be writable by the caller: a read-only file is reported as
// a permission error rather than silently replaced through the rename.
func AtomicWrite(path string, data []byte, perm fs.FileMode) error {
	// Rewrite the link target, not the link itself.
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if err := checkWritable(path); err != nil {
		return err
	}
	orig, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return renameIntoPlace(path, data, perm, orig)
}

// WriteFileAtomic is AtomicWrite that also creates path when it does not
// exist yet. It is used for report files rather than searched files.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	if _, err := os.Lstat(path); err == nil {
		return AtomicWrite(path, data, perm)
	}
	return renameIntoPlace(path, data, perm, nil)
}

// renameIntoPlace writes data next to path and renames it over path.
// A non-nil orig is the file being replaced.
func renameIntoPlace(path string, data []byte, perm fs.FileMode, orig fs.FileInfo) error {
	dir := filepath.Dir(path)

	// Same directory as the target keeps the rename on one filesystem.
	// The dot prefix keeps it out of directory listings if a run overlaps.
	tempFile, err := os.CreateTemp(dir, ".findreplace-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if orig != nil {
		preserveOwner(tempPath, orig)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// Renamed into place, nothing to clean up.
	tempFile = nil

	return nil
}

func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("file is not writable: %w", err)
	}
	return f.Close()
}
