package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const AppName = "timebox"

// Paths are the on-disk locations the app reads and writes.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
	LogPath    string
	ExportDir  string
}

func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user home dir: %w", err)
	}
	env := map[string]string{
		"XDG_CONFIG_HOME": os.Getenv("XDG_CONFIG_HOME"),
		"XDG_DATA_HOME":   os.Getenv("XDG_DATA_HOME"),
		"APPDATA":         os.Getenv("APPDATA"),
		"LOCALAPPDATA":    os.Getenv("LOCALAPPDATA"),
	}
	return PathsFor(runtime.GOOS, env, home, AppName)
}

// PathsFor resolves paths without touching the process environment.
//
//   - macOS:   ~/Library/Application Support/<app> for both config and data
//   - Linux:   $XDG_CONFIG_HOME/<app> and $XDG_DATA_HOME/<app>
//     (fallback ~/.config and ~/.local/share)
//   - Windows: %APPDATA%\<app> and %LOCALAPPDATA%\<app>
func PathsFor(goos string, env map[string]string, home, appName string) (Paths, error) {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Paths{}, fmt.Errorf("empty app name")
	}
	if home == "" {
		return Paths{}, fmt.Errorf("empty home dir")
	}

	var configBase, dataBase string
	switch goos {
	case "darwin":
		configBase = filepath.Join(home, "Library", "Application Support")
		dataBase = configBase
	case "windows":
		configBase = firstNonEmpty(env["APPDATA"], home)
		dataBase = firstNonEmpty(env["LOCALAPPDATA"], env["APPDATA"], home)
	default: // linux, freebsd, etc.
		configBase = firstNonEmpty(env["XDG_CONFIG_HOME"], filepath.Join(home, ".config"))
		dataBase = firstNonEmpty(env["XDG_DATA_HOME"], filepath.Join(home, ".local", "share"))
	}

	dataDir := filepath.Join(dataBase, appName)
	return Paths{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, appName+".db"),
		LogPath:    filepath.Join(dataDir, "log", appName+".log"),
		ExportDir:  filepath.Join(dataDir, "exports"),
	}, nil
}

// EnsureDirs creates the directories the paths live in.
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.DataDir, filepath.Dir(p.DBPath), filepath.Dir(p.LogPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
