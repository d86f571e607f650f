//go:build unix

package filelock

import (
	"io/fs"
	"os"
	"syscall"
)

// preserveOwner gives path the uid and gid of orig. Only privileged callers
// can give a file away, so a refused chown keeps the caller's ownership.
func preserveOwner(path string, orig fs.FileInfo) {
	st, ok := orig.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	if int(st.Uid) == os.Getuid() && int(st.Gid) == os.Getgid() {
		return
	}
	_ = os.Chown(path, int(st.Uid), int(st.Gid))
}
