package script

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// ScriptPathEnvVar is the directory scanned for reconcile scripts.
	ScriptPathEnvVar = "NUOP_SCRIPT_PATH"
	// MappingsPathEnvVar is the directory scanned for mapping YAML files.
	MappingsPathEnvVar = "NUOP_MAPPINGS_PATH"

	defaultScriptPath   = "/scripts"
	defaultMappingsPath = "/config/mappings"

	modEntrypointFile = "mod.nu"
)

// ScriptPath returns NUOP_SCRIPT_PATH, or its default.
func ScriptPath() string {
	if v := os.Getenv(ScriptPathEnvVar); v != "" {
		return v
	}
	return defaultScriptPath
}

// MappingsPath returns NUOP_MAPPINGS_PATH, or its default.
func MappingsPath() string {
	if v := os.Getenv(MappingsPathEnvVar); v != "" {
		return v
	}
	return defaultMappingsPath
}

// FindMappings walks root recursively and returns every file ending in
// ".yaml". A missing or unreadable root yields an empty slice, not an
// error — mapping discovery never aborts the fleet build.
func FindMappings(root string) []string {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	var found []string
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			found = append(found, FindMappings(path)...)
			continue
		}
		if strings.HasSuffix(entry.Name(), ".yaml") {
			found = append(found, path)
		}
	}
	return found
}

// FindScripts walks root and returns the reconcile script entrypoints it
// finds, under either recognized discipline:
//
//   - any file with the executable bit set (mode&0o111 != 0)
//   - any subdirectory containing a "mod.nu" file, which is the entrypoint
//
// A subdirectory containing mod.nu is not recursed into further; any other
// subdirectory is.
func FindScripts(root string) []string {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var found []string
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			modPath := filepath.Join(path, modEntrypointFile)
			if st, err := os.Stat(modPath); err == nil && !st.IsDir() {
				found = append(found, modPath)
				continue
			}
			found = append(found, FindScripts(path)...)
			continue
		}
		if isExecutable(entry) {
			found = append(found, path)
		}
	}
	return found
}

func isExecutable(entry os.DirEntry) bool {
	info, err := entry.Info()
	if err != nil {
		return false
	}
	return info.Mode()&0o111 != 0
}
