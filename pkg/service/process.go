package service

import (
	"github.com/shirou/gopsutil/v3/process"

	"github.com/devicelab-dev/wdclient/pkg/logger"
)

// childProcesses snapshots the descendants of pid. Drivers spawn browsers
// that are reparented once the driver dies, so this must run before the
// driver is signalled.
func childProcesses(pid int) []*process.Process {
	parent, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil
	}
	var all []*process.Process
	queue := []*process.Process{parent}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		children, err := p.Children()
		if err != nil {
			continue
		}
		all = append(all, children...)
		queue = append(queue, children...)
	}
	return all
}

func killAll(procs []*process.Process) {
	for _, p := range procs {
		if running, err := p.IsRunning(); err != nil || !running {
			continue
		}
		if err := p.Kill(); err != nil {
			logger.Debug("kill child %d: %v", p.Pid, err)
		}
	}
}
