package probe

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// NeighborTable reads the system ARP/neighbor cache mapping IPs to resolved
// hardware addresses on the local link.
type NeighborTable struct {
	logger *zap.Logger
}

// NewNeighborTable creates a neighbor-table reader.
func NewNeighborTable(logger *zap.Logger) *NeighborTable {
	return &NeighborTable{logger: logger}
}

// Snapshot returns the full current neighbor table as IP -> uppercase MAC.
// Incomplete entries are omitted. Returns an empty map (not an error) when
// the table cannot be read.
func (t *NeighborTable) Snapshot(ctx context.Context) map[string]string {
	switch runtime.GOOS {
	case "linux":
		return t.readLinux()
	case "windows", "darwin":
		return t.readArpCommand(ctx)
	default:
		t.logger.Warn("neighbor table reading not supported on this platform",
			zap.String("os", runtime.GOOS))
		return map[string]string{}
	}
}

// Resolve returns the resolved hardware address for ip, or "" when the table
// has no entry or only an incomplete one.
func (t *NeighborTable) Resolve(ctx context.Context, ip string) string {
	return t.Snapshot(ctx)[ip]
}

// readLinux parses /proc/net/arp.
// Format: IP address HW type Flags HW address Mask Device
func (t *NeighborTable) readLinux() map[string]string {
	out, err := os.ReadFile("/proc/net/arp")
	if err != nil {
		t.logger.Debug("failed to read /proc/net/arp", zap.Error(err))
		return map[string]string{}
	}
	return parseLinuxNeighbors(string(out))
}

// readArpCommand shells out to `arp -a` on Windows and macOS.
func (t *NeighborTable) readArpCommand(ctx context.Context) map[string]string {
	cmd := exec.CommandContext(ctx, "arp", "-a")
	out, err := cmd.Output()
	if err != nil {
		t.logger.Debug("failed to run arp -a", zap.Error(err))
		return map[string]string{}
	}
	if runtime.GOOS == "windows" {
		return parseWindowsNeighbors(string(out))
	}
	return parseDarwinNeighbors(string(out))
}

// ParseNeighborOutput parses platform-specific neighbor table output.
// Exported for testing.
func ParseNeighborOutput(output, platform string) map[string]string {
	switch platform {
	case "linux":
		return parseLinuxNeighbors(output)
	case "windows":
		return parseWindowsNeighbors(output)
	case "darwin":
		return parseDarwinNeighbors(output)
	default:
		return map[string]string{}
	}
}

func parseLinuxNeighbors(output string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Scan() // Skip header.
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		mac := strings.ToUpper(fields[3])
		// 00:00:00:00:00:00 marks an incomplete entry.
		if mac == "00:00:00:00:00:00" {
			continue
		}
		table[fields[0]] = mac
	}
	return table
}

// parseWindowsNeighbors parses `arp -a` output on Windows.
// Lines look like: 192.168.1.1 aa-bb-cc-dd-ee-ff dynamic
func parseWindowsNeighbors(output string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) < 3 {
			continue
		}
		ip := fields[0]
		if ip == "" || ip[0] < '0' || ip[0] > '9' {
			continue
		}
		mac := strings.ToUpper(strings.ReplaceAll(fields[1], "-", ":"))
		if mac == "FF:FF:FF:FF:FF:FF" || mac == "00:00:00:00:00:00" {
			continue
		}
		table[ip] = mac
	}
	return table
}

// parseDarwinNeighbors parses `arp -a` output on macOS.
// Lines look like: hostname (ip) at mac on iface [...]
func parseDarwinNeighbors(output string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		parenStart := strings.Index(line, "(")
		parenEnd := strings.Index(line, ")")
		if parenStart < 0 || parenEnd < 0 || parenEnd <= parenStart {
			continue
		}
		ip := line[parenStart+1 : parenEnd]

		atIdx := strings.Index(line[parenEnd:], " at ")
		if atIdx < 0 {
			continue
		}
		fields := strings.Fields(line[parenEnd+atIdx+4:])
		if len(fields) == 0 {
			continue
		}
		mac := strings.ToUpper(fields[0])
		if mac == "(INCOMPLETE)" || mac == "FF:FF:FF:FF:FF:FF" {
			continue
		}
		table[ip] = mac
	}
	return table
}
