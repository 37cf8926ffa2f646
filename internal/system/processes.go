package system

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// DefaultProcessLimit is how many processes ListProcesses returns by default.
const DefaultProcessLimit = 20

// Process is one row of the process list.
type Process struct {
	PID        int
	Name       string
	CPUPercent float64
	MemoryMB   float64
	Command    string
}

// psArgs returns ps arguments that list pid, cpu, rss and command sorted
// by cpu, highest first. procps uses -r for "running only", so Linux
// sorts explicitly.
func psArgs(goos string) []string {
	if goos == "linux" {
		return []string{"-eo", "pid,pcpu,rss,comm", "--sort=-pcpu"}
	}
	return []string{"-eo", "pid,pcpu,rss,comm", "-r"}
}

// ListProcesses runs ps and returns at most limit processes.
func ListProcesses(ctx context.Context, limit int) ([]Process, error) {
	out, err := exec.CommandContext(ctx, "ps", psArgs(runtime.GOOS)...).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run ps: %w", err)
	}
	return ParseProcesses(string(out), limit), nil
}

// ParseProcesses parses ps output, skipping the header and any line with
// fewer than four fields. Numbers that do not parse become zero. A
// non-positive limit uses DefaultProcessLimit.
func ParseProcesses(output string, limit int) []Process {
	if limit <= 0 {
		limit = DefaultProcessLimit
	}

	var processes []Process
	sc := bufio.NewScanner(strings.NewReader(output))
	header := true

	for sc.Scan() {
		if header {
			header = false
			continue
		}
		if len(processes) >= limit {
			break
		}

		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}

		pid, _ := strconv.Atoi(fields[0])
		cpu, _ := strconv.ParseFloat(fields[1], 64)
		rssKB, _ := strconv.ParseFloat(fields[2], 64)
		command := strings.Join(fields[3:], " ")

		name := command
		if i := strings.LastIndex(command, "/"); i >= 0 {
			name = command[i+1:]
		}

		processes = append(processes, Process{
			PID:        pid,
			Name:       name,
			CPUPercent: cpu,
			MemoryMB:   rssKB / 1024,
			Command:    command,
		})
	}

	return processes
}
