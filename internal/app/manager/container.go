package manager

import (
	"time"

	"bachd/internal/app/module"
	"bachd/internal/app/schedule"
)

// container pairs a loaded module with the type name used to re-instantiate
// it from the registry (needed on respawn, to start each worker life with a
// fresh run-status) and its optional fire schedule. Lives for the life of
// the manager.
type container struct {
	TypeName   string
	ConfigFile string
	Module     module.Module
	Schedule   *schedule.Schedule
}

// spawnedModule is the manager's bookkeeping record for one running worker:
// its handle, its position among loaded modules, and the timestamps
// supervision and scheduled firing need.
type spawnedModule struct {
	Handle        *module.Handle
	Index         int
	Name          string
	LastSeenAlive time.Time
	LastFire      time.Time
	Schedule      *schedule.Schedule
}
