// Package service installs "sift serve" as a launchd or systemd service.
package service

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"
)

const (
	launchdLabel = "com.kayz.sift"
	systemdUnit  = "sift"
)

// Unit describes the installed service.
type Unit struct {
	BinaryPath string
	ConfigPath string
	WorkingDir string
	LogPath    string
}

// ServiceID returns launchd label (darwin) or systemd unit name (linux).
func ServiceID() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return launchdLabel, nil
	case "linux":
		return systemdUnit, nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Paths returns the installed binary and service definition paths.
func Paths() (binaryPath, definitionPath string, err error) {
	switch runtime.GOOS {
	case "darwin":
		return "/usr/local/bin/sift", "/Library/LaunchDaemons/" + launchdLabel + ".plist", nil
	case "linux":
		return "/usr/local/bin/sift", "/etc/systemd/system/" + systemdUnit + ".service", nil
	default:
		return "", "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// IsInstalled checks whether the service definition and binary exist.
func IsInstalled() bool {
	binaryPath, definitionPath, err := Paths()
	if err != nil {
		return false
	}
	if _, err := os.Stat(definitionPath); err != nil {
		return false
	}
	_, err = os.Stat(binaryPath)
	return err == nil
}

// IsRunning checks if the service is running.
func IsRunning() bool {
	serviceID, err := ServiceID()
	if err != nil {
		return false
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("launchctl", "list", serviceID).Run() == nil
	case "linux":
		return exec.Command("systemctl", "is-active", "--quiet", serviceID).Run() == nil
	}
	return false
}

// Install copies sourceBinary into place and registers a service running
// "sift serve" against configPath. Relative paths are resolved first.
func Install(sourceBinary, configPath string) error {
	binaryPath, definitionPath, err := Paths()
	if err != nil {
		return err
	}
	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		return err
	}

	if err := copyBinary(sourceBinary, binaryPath); err != nil {
		return fmt.Errorf("failed to copy binary: %w", err)
	}

	unit := Unit{
		BinaryPath: binaryPath,
		ConfigPath: absConfig,
		WorkingDir: filepath.Dir(absConfig),
		LogPath:    "/var/log/sift.log",
	}
	if err := writeDefinition(definitionPath, unit); err != nil {
		return fmt.Errorf("failed to create service config: %w", err)
	}

	if err := enableService(definitionPath); err != nil {
		return fmt.Errorf("failed to enable service: %w", err)
	}
	return nil
}

// Uninstall stops and removes the service.
func Uninstall() error {
	_ = Stop()

	binaryPath, definitionPath, err := Paths()
	if err != nil {
		return err
	}
	serviceID, _ := ServiceID()

	switch runtime.GOOS {
	case "darwin":
		_ = exec.Command("launchctl", "unload", definitionPath).Run()
	case "linux":
		_ = exec.Command("systemctl", "disable", serviceID).Run()
		_ = exec.Command("systemctl", "daemon-reload").Run()
	}

	os.Remove(definitionPath)
	os.Remove(binaryPath)
	return nil
}

func Start() error {
	return control("start")
}

func Stop() error {
	return control("stop")
}

// Restart restarts the service. A stop failure is ignored since the
// service may not be running.
func Restart() error {
	_ = Stop()
	return Start()
}

func control(action string) error {
	serviceID, err := ServiceID()
	if err != nil {
		return err
	}
	_, definitionPath, err := Paths()
	if err != nil {
		return err
	}

	if runtime.GOOS == "darwin" {
		verb := "load"
		if action == "stop" {
			verb = "unload"
		}
		return exec.Command("launchctl", verb, definitionPath).Run()
	}
	return exec.Command("systemctl", action, serviceID).Run()
}

func copyBinary(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0755)
}

func writeDefinition(path string, unit Unit) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if runtime.GOOS == "darwin" {
		return RenderLaunchdPlist(f, unit)
	}
	return RenderSystemdUnit(f, unit)
}

func enableService(definitionPath string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("launchctl", "load", definitionPath).Run()
	case "linux":
		if err := exec.Command("systemctl", "daemon-reload").Run(); err != nil {
			return err
		}
		return exec.Command("systemctl", "enable", systemdUnit).Run()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

var launchdPlistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>` + launchdLabel + `</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.BinaryPath}}</string>
        <string>serve</string>
        <string>--config</string>
        <string>{{.ConfigPath}}</string>
    </array>
    <key>WorkingDirectory</key>
    <string>{{.WorkingDir}}</string>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardOutPath</key>
    <string>{{.LogPath}}</string>
    <key>StandardErrorPath</key>
    <string>{{.LogPath}}</string>
</dict>
</plist>
`))

// RenderLaunchdPlist writes the launchd definition for unit.
func RenderLaunchdPlist(w io.Writer, unit Unit) error {
	return launchdPlistTemplate.Execute(w, unit)
}

var systemdUnitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=sift search result review service
After=network.target

[Service]
Type=simple
WorkingDirectory={{.WorkingDir}}
ExecStart={{.BinaryPath}} serve --config {{.ConfigPath}}
Restart=always
RestartSec=5
StandardOutput=append:{{.LogPath}}
StandardError=append:{{.LogPath}}

[Install]
WantedBy=multi-user.target
`))

// RenderSystemdUnit writes the systemd unit file for unit.
func RenderSystemdUnit(w io.Writer, unit Unit) error {
	return systemdUnitTemplate.Execute(w, unit)
}
