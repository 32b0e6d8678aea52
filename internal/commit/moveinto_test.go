package commit

import (
	"os"
	"syscall"
	"testing"
)

func TestCrossDeviceFallbackAllowed(t *testing.T) {
	exdev := &os.LinkError{Op: "rename", Old: "/mnt/a/movie.arkiv.mkv", New: "/mnt/b/movie.mkv", Err: syscall.EXDEV}

	if !crossDeviceFallbackAllowed(exdev, "/mnt/b/movie.mkv", "/mnt/a/movie.mp4") {
		t.Fatal("cross-device rename onto a distinct path should fall back to a copy")
	}
	if crossDeviceFallbackAllowed(exdev, "/mnt/a/movie.mkv", "/mnt/a/movie.mkv") {
		t.Fatal("fallback must never copy over the original file")
	}

	enoent := &os.LinkError{Op: "rename", Old: "/mnt/a/gone", New: "/mnt/b/gone", Err: syscall.ENOENT}
	if crossDeviceFallbackAllowed(enoent, "/mnt/b/gone", "/mnt/a/other") {
		t.Fatal("only cross-device failures qualify for the copy fallback")
	}
}
