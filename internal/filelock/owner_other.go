//go:build !unix

package filelock

import "io/fs"

func preserveOwner(path string, orig fs.FileInfo) {}
