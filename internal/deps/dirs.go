package deps

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CheckLibraryDir verifies the library directory exists and that the run can
// both read candidates from it and replace files in place.
func CheckLibraryDir(path string) Status {
	status := Status{
		Name:        "Library directory",
		Command:     path,
		Description: "Scanned for video files and rewritten in place",
	}

	info, err := os.Stat(path)
	if err != nil {
		status.Detail = fmt.Sprintf("stat failed: %v", err)
		return status
	}
	if !info.IsDir() {
		status.Detail = "not a directory"
		return status
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return status
	}

	status.Available = true
	return status
}
