// Package sysinfo collects the host facts attached to detailed reports.
package sysinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/perfrun/perfrun/internal/report"
)

// Provider reads host facts through gopsutil.
type Provider struct{}

func (Provider) SystemFacts() (report.SystemFacts, error) {
	physical, err := cpu.Counts(false)
	if err != nil {
		return report.SystemFacts{}, fmt.Errorf("could not count physical cores: %w", err)
	}
	logical, err := cpu.Counts(true)
	if err != nil {
		return report.SystemFacts{}, fmt.Errorf("could not count logical cores: %w", err)
	}
	memory, err := mem.VirtualMemory()
	if err != nil {
		return report.SystemFacts{}, fmt.Errorf("could not read physical memory: %w", err)
	}
	info, err := host.Info()
	if err != nil {
		return report.SystemFacts{}, fmt.Errorf("could not read host info: %w", err)
	}

	return report.SystemFacts{
		PhysicalCores:    physical,
		LogicalCores:     logical,
		TotalMemoryBytes: memory.Total,
		Platform:         fmt.Sprintf("%s-%s-%s", info.OS, info.KernelVersion, info.KernelArch),
	}, nil
}
