// Package desktop delivers notifications and sounds through the host's
// command-line tools.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/sandeepkv93/lifeboard/internal/scheduler"
)

var ErrUnsupported = errors.New("desktop: notifications unsupported on this platform")

// ExecPlatform shows notifications with notify-send on Linux and osascript
// on macOS. Permission is granted when the tool is installed.
type ExecPlatform struct {
	AppName string
	Icon    string

	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error

	mu   sync.Mutex
	perm scheduler.Permission
}

func NewExecPlatform(appName, icon string) *ExecPlatform {
	return &ExecPlatform{
		AppName:  appName,
		Icon:     icon,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run:      runCommand,
		perm:     scheduler.PermissionDefault,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (p *ExecPlatform) tool() string {
	switch p.goos {
	case "linux", "freebsd", "openbsd":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func (p *ExecPlatform) Permission() scheduler.Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.perm
}

func (p *ExecPlatform) RequestPermission(ctx context.Context) (scheduler.Permission, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tool := p.tool()
	if tool == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, p.goos)
	}
	perm := scheduler.PermissionGranted
	if _, err := p.lookPath(tool); err != nil {
		perm = scheduler.PermissionDenied
	}
	p.mu.Lock()
	p.perm = perm
	p.mu.Unlock()
	return perm, nil
}

func (p *ExecPlatform) Show(n scheduler.Notification) error {
	ctx := context.Background()
	switch p.tool() {
	case "notify-send":
		args := make([]string, 0, 6)
		if p.AppName != "" {
			args = append(args, "-a", p.AppName)
		}
		if p.Icon != "" {
			args = append(args, "-i", p.Icon)
		}
		args = append(args, n.Title, n.Body)
		return p.run(ctx, "notify-send", args...)
	case "osascript":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return p.run(ctx, "osascript", "-e", script)
	default:
		return ErrUnsupported
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// ExecSound plays a sound file without waiting for playback to finish.
type ExecSound struct {
	Path string

	goos  string
	start func(name string, args ...string) error
}

func NewExecSound(path string) *ExecSound {
	return &ExecSound{Path: path, goos: runtime.GOOS, start: startCommand}
}

func startCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (s *ExecSound) Play() error {
	if strings.TrimSpace(s.Path) == "" {
		return nil
	}
	switch s.goos {
	case "darwin":
		return s.start("afplay", s.Path)
	case "linux", "freebsd", "openbsd":
		return s.start("paplay", s.Path)
	default:
		return ErrUnsupported
	}
}

// Memory records notifications instead of showing them. It backs headless
// runs and the in-app notification history when desktop delivery is off.
type Memory struct {
	mu    sync.Mutex
	perm  scheduler.Permission
	grant scheduler.Permission
	shown []scheduler.Notification
	limit int
}

// NewMemory returns a platform that answers permission requests with grant
// and keeps the last limit notifications.
func NewMemory(grant scheduler.Permission, limit int) *Memory {
	if limit <= 0 {
		limit = 40
	}
	return &Memory{perm: scheduler.PermissionDefault, grant: grant, limit: limit}
}

func (m *Memory) Permission() scheduler.Permission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.perm
}

func (m *Memory) RequestPermission(ctx context.Context) (scheduler.Permission, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perm = m.grant
	return m.perm, nil
}

func (m *Memory) Show(n scheduler.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = append(m.shown, n)
	if len(m.shown) > m.limit {
		m.shown = m.shown[len(m.shown)-m.limit:]
	}
	return nil
}

func (m *Memory) Shown() []scheduler.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]scheduler.Notification, len(m.shown))
	copy(out, m.shown)
	return out
}
