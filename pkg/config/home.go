package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "WDCLIENT_HOME"

var home = sync.OnceValue(resolveHome)

// GetHome returns the wdclient home: $WDCLIENT_HOME, else the directory above
// <home>/bin when the binary lives there, else the working directory. The
// result is cached for the life of the process.
func GetHome() string { return home() }

// GetDriversDir returns <home>/drivers, searched first for driver
// executables given by bare name.
func GetDriversDir() string {
	return filepath.Join(GetHome(), "drivers")
}

func resolveHome() string {
	if dir := os.Getenv(envHome); dir != "" {
		return dir
	}
	if dir, ok := installDir(); ok {
		return dir
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// installDir reports the install root of a binary placed in <root>/bin.
func installDir() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	bin := filepath.Dir(exe)
	if filepath.Base(bin) != "bin" {
		return "", false
	}
	return filepath.Dir(bin), true
}

// ResetHome drops the cached home directory. Tests only.
func ResetHome() {
	home = sync.OnceValue(resolveHome)
}
