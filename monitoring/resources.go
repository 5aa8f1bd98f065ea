// Package monitoring reports how much work a simulation has done and what it
// costs the host.
package monitoring

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// ResourceSnapshot is the host resource usage of the current process.
type ResourceSnapshot struct {
	CPUPercent float64
	RSSBytes   uint64
}

// TakeResourceSnapshot measures the current process.
func TakeResourceSnapshot() (ResourceSnapshot, error) {
	pid := os.Getpid()

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return ResourceSnapshot{}, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return ResourceSnapshot{}, err
	}

	memoryInfo, err := p.MemoryInfo()
	if err != nil {
		return ResourceSnapshot{}, err
	}

	rsp := ResourceSnapshot{
		CPUPercent: cpuPercent,
		RSSBytes:   memoryInfo.RSS,
	}

	return rsp, nil
}
