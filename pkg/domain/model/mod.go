package model

import "time"

// InstallRequest describes a single mod installation
type InstallRequest struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"` // Optional explicit folder name
}

// InstallResult is returned once a mod has been unpacked into the mods root
type InstallResult struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// InstalledMod is a directory found under the mods root
type InstalledMod struct {
	Name    string    `json:"name" yaml:"name"`
	Path    string    `json:"path" yaml:"path"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}
