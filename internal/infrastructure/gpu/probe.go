// Package gpu probes the accelerator for free memory and derives the working
// budget of a batch run.
package gpu

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
)

// DeviceInfo is what a probe learns about device 0.
type DeviceInfo struct {
	Present      bool
	Name         string
	AvailableMiB int64
	TotalMiB     int64
}

// Prober queries the accelerator.  A missing device is reported through
// DeviceInfo.Present, not as an error.
type Prober interface {
	Probe(ctx context.Context) (DeviceInfo, error)
}

// CommandFunc runs a query tool and returns its stdout.
type CommandFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var smiQuery = []string{
	"--query-gpu=name,memory.free,memory.total",
	"--format=csv,noheader,nounits",
}

// SMIProber reads device memory through nvidia-smi.
type SMIProber struct {
	Binary string
	run    CommandFunc
	logger logging.Logger
}

// NewSMIProber returns a prober using binary ("nvidia-smi" when empty).  A
// nil run executes the real tool.
func NewSMIProber(binary string, run CommandFunc, logger logging.Logger) *SMIProber {
	if binary == "" {
		binary = "nvidia-smi"
	}
	if run == nil {
		run = execCommand
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SMIProber{Binary: binary, run: run, logger: logger.Named("gpu")}
}

// Probe selects device 0.  An absent tool or an empty device list yields a
// not-present result; unreadable output is an error.
func (p *SMIProber) Probe(ctx context.Context) (DeviceInfo, error) {
	out, err := p.run(ctx, p.Binary, smiQuery...)
	if err != nil {
		p.logger.Warn("no accelerator detected", logging.String("tool", p.Binary), logging.Err(err))
		return DeviceInfo{}, nil
	}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		info, err := parseSMILine(line)
		if err != nil {
			return DeviceInfo{}, errors.Wrap(err, errors.ErrCodeDeviceUnavailable, "unreadable device query output").WithDetail(line)
		}
		p.logger.Debug("device probed",
			logging.String("name", info.Name),
			logging.Int64("available_mib", info.AvailableMiB),
			logging.Int64("total_mib", info.TotalMiB))
		return info, nil
	}
	return DeviceInfo{}, nil
}

func parseSMILine(line string) (DeviceInfo, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return DeviceInfo{}, errors.Newf(errors.ErrCodeDeviceUnavailable, "expected 3 columns, got %d", len(parts))
	}
	free, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return DeviceInfo{}, err
	}
	total, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return DeviceInfo{}, err
	}
	return DeviceInfo{
		Present:      true,
		Name:         strings.TrimSpace(parts[0]),
		AvailableMiB: free,
		TotalMiB:     total,
	}, nil
}

// StaticProber returns a fixed result.
type StaticProber struct {
	Info DeviceInfo
	Err  error
}

func (s StaticProber) Probe(context.Context) (DeviceInfo, error) { return s.Info, s.Err }

//Personal.AI order the ending
