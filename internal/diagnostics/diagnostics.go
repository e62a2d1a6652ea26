package diagnostics

import (
	"fmt"
	"os"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

var (
	CpuProfileFlag = cli.StringFlag{
		Name:  "cpuprofile",
		Usage: "sets the target file for storing CPU profiles to, disabled if empty",
	}
	TraceFlag = cli.StringFlag{
		Name:  "tracefile",
		Usage: "sets the target file for traces to, disabled if empty",
	}
)

// Wrap adds CPU profiling and execution tracing around an action, enabled by
// the file names given in CpuProfileFlag and TraceFlag.
func Wrap(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if name := strings.TrimSpace(ctx.String(CpuProfileFlag.Name)); name != "" {
			stop, err := startCpuProfiler(name)
			if err != nil {
				return err
			}
			defer stop()
		}

		if name := strings.TrimSpace(ctx.String(TraceFlag.Name)); name != "" {
			stop, err := startTracer(name)
			if err != nil {
				return err
			}
			defer stop()
		}

		return action(ctx)
	}
}

func startCpuProfiler(filename string) (func(), error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	log.Debug("CPU profiling started", "file", filename)
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func startTracer(filename string) (func(), error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	if err := trace.Start(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to start trace: %w", err)
	}
	log.Debug("Tracing started", "file", filename)
	return func() {
		trace.Stop()
		f.Close()
	}, nil
}
