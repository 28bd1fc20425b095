package path

import (
	"fmt"
	"path/filepath"
	"strings"
)

var systemDirs = []string{
	"/bin", "/boot", "/dev", "/etc", "/lib", "/lib64", "/proc",
	"/root", "/run", "/sbin", "/sys", "/usr", "/var",
}

// IsSafeProjectDir rejects directories that must never become a sandbox
// root: a filesystem root, a well-known system directory or anything
// below one. dir must be absolute.
func IsSafeProjectDir(dir string) error {
	if !filepath.IsAbs(dir) {
		return &RootError{Root: dir, Cause: fmt.Errorf("not absolute")}
	}
	clean := filepath.Clean(dir)

	if vol := filepath.VolumeName(clean); clean == vol+string(filepath.Separator) {
		return &RootError{Root: dir, Cause: ErrUnsafeRoot}
	}

	slashed := filepath.ToSlash(clean)
	for _, sys := range systemDirs {
		if slashed == sys || strings.HasPrefix(slashed, sys+"/") {
			return &RootError{Root: dir, Cause: ErrUnsafeRoot}
		}
	}
	return nil
}
