// Package manager implements the module manager: it loads modules from
// configuration, spawns their workers, fires them on schedule, supervises
// liveness via Alive packets, and joins everything on shutdown.
package manager

import (
	"fmt"
	"sync"
	"time"

	"bachd/internal/app/bus"
	"bachd/internal/app/errors"
	"bachd/internal/app/module"
	"bachd/internal/app/packet"
	"bachd/internal/app/registry"
	"bachd/internal/app/schedule"
	"bachd/internal/config"
	"bachd/internal/config/logger"
)

// Manager owns the loaded module list and the spawned worker list, and
// drives scheduled firing and liveness supervision.
type Manager interface {
	// Load instantiates every ModuleDefinition in cfg from reg.
	Load(cfg config.ModuleManagerConfig, reg registry.Registry) error

	// SpawnAll inits and spawns every loaded module's worker.
	SpawnAll() []error

	// Connect registers this manager's bus hookups: one connection per
	// loaded module (default input/output routing) plus a supervision
	// connection that watches Alive packets.
	Connect(b bus.Bus)

	// FireCyclic publishes BackupCom(FIRE) for every spawned module whose
	// schedule matches now, at most once per matched minute.
	FireCyclic(now time.Time)

	GetModuleList() []string
	GetSpawnedList() []string
	GetStatus(name string) Status

	// JoinAll drains the spawned list, joining every worker and calling
	// Destroy on its module. The returned map is keyed by module name.
	JoinAll() map[string]error
}

type manager struct {
	mu       sync.Mutex
	loaded   []*container
	spawned  []*spawnedModule
	registry registry.Registry

	respawnThreshold time.Duration
	aliveInterval    time.Duration
	joinTimeout      time.Duration

	bus bus.Bus
	log logger.Logger
}

// New creates an empty Manager. respawnThreshold is the silence window
// before supervision respawns a module; aliveInterval is handed to every
// spawned worker's alive emitter.
func New(respawnThreshold, aliveInterval time.Duration, log logger.Logger) Manager {
	if log == nil {
		log = &logger.NoopLogger{}
	}

	return &manager{
		respawnThreshold: respawnThreshold,
		aliveInterval:    aliveInterval,
		joinTimeout:      config.ShutdownTimeout,
		log:              log.WithComponent("MANAGER"),
	}
}

// Load instantiates every ModuleDefinition in cfg via reg, keyed by its
// Name (the static registry key doubles as the module's instance name).
// A module whose constructor or schedule fails is skipped and its error
// logged; it never aborts the load of the remaining modules. Only the first
// such error is returned.
func (m *manager) Load(cfg config.ModuleManagerConfig, reg registry.Registry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registry = reg

	var firstErr error

	for _, def := range cfg.Modules {
		mod, err := reg.New(def.Name, def.Name, def.ConfigFile)
		if err != nil {
			m.log.Error().Err(err).Str("module", def.Name).Msg("failed to load module")

			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		var sch *schedule.Schedule
		if def.Schedule != nil {
			s, err := schedule.New(def.Schedule.Hour, def.Schedule.Min)
			if err != nil {
				m.log.Error().Err(err).Str("module", def.Name).Msg("invalid schedule")

				if firstErr == nil {
					firstErr = err
				}

				continue
			}

			sch = &s
		}

		m.loaded = append(m.loaded, &container{
			TypeName:   def.Name,
			ConfigFile: def.ConfigFile,
			Module:     mod,
			Schedule:   sch,
		})
	}

	return firstErr
}

// SpawnAll calls Init on every loaded module and starts its worker. A
// module whose Init fails is not spawned; its error is collected and
// spawning continues for the rest.
func (m *manager) SpawnAll() []error {
	m.mu.Lock()
	loaded := make([]*container, len(m.loaded))
	copy(loaded, m.loaded)
	m.mu.Unlock()

	var errs []error

	for i, c := range loaded {
		if err := c.Module.Init(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", errors.ErrModuleInitFailed, c.Module.Name(), err))
			continue
		}

		handle := module.Spawn(c.Module, m.aliveInterval)

		m.mu.Lock()
		m.spawned = append(m.spawned, &spawnedModule{
			Handle:        handle,
			Index:         i,
			Name:          c.Module.Name(),
			LastSeenAlive: time.Now(),
			Schedule:      c.Schedule,
		})
		m.mu.Unlock()
	}

	return errs
}

// Connect registers one bus connection per loaded module (the default
// input/output routing from the worker contract) plus the supervision
// connection that watches Alive packets and triggers respawn on silence.
func (m *manager) Connect(b bus.Bus) {
	m.mu.Lock()
	m.bus = b
	loaded := make([]*container, len(m.loaded))
	copy(loaded, m.loaded)
	m.mu.Unlock()

	for _, c := range loaded {
		mod := c.Module

		b.Connect(bus.Connection{
			Label:  mod.Name(),
			Filter: module.DefaultFilter,
			Inlet:  module.DefaultInlet(mod),
			Outlet: module.DefaultOutlet(mod),
		})
	}

	b.Connect(bus.Connection{
		Label:  "supervision",
		Filter: func(p packet.Packet) bool { return p.Tag == packet.TagAlive },
		Inlet:  m.supervisionInlet,
	})
}

// supervisionInlet stamps the last-seen-alive timestamp for the reporting
// module and, on the same pass, respawns every other spawned module whose
// silence exceeds the respawn threshold.
func (m *manager) supervisionInlet(p packet.Packet) {
	name, err := packet.ParseAlive(p)
	if err != nil {
		return
	}

	now := time.Now()

	m.mu.Lock()
	var stale []string
	for _, sp := range m.spawned {
		if sp.Name == name {
			sp.LastSeenAlive = now
			continue
		}

		if now.Sub(sp.LastSeenAlive) > m.respawnThreshold {
			stale = append(stale, sp.Name)
		}
	}
	m.mu.Unlock()

	for _, n := range stale {
		m.respawn(n)
	}
}

// respawn removes name from the spawned list, joins its worker (reporting
// NotifyWarn/NotifyErr on the bus depending on how it exited), then builds
// and spawns a fresh instance from the registry so the new worker starts
// with a clean run-status.
func (m *manager) respawn(name string) {
	m.mu.Lock()
	idx := -1
	for i, sp := range m.spawned {
		if sp.Name == name {
			idx = i
			break
		}
	}

	if idx == -1 {
		m.mu.Unlock()
		return
	}

	sp := m.spawned[idx]
	m.spawned = append(m.spawned[:idx], m.spawned[idx+1:]...)
	m.mu.Unlock()

	joinErr := sp.Handle.Join(m.joinTimeout)

	if m.bus != nil {
		if joinErr != nil {
			m.bus.Send(packet.NewNotifyErr("respawn: worker failed to join", name, "SUPERVISION"))
		} else {
			m.bus.Send(packet.NewNotifyWarn("respawn: silence threshold exceeded", name, "SUPERVISION"))
		}
	}

	m.mu.Lock()
	var c *container
	for _, l := range m.loaded {
		if l.Module.Name() == name {
			c = l
			break
		}
	}
	m.mu.Unlock()

	if c == nil || m.registry == nil {
		return
	}

	fresh, err := m.registry.New(c.TypeName, name, c.ConfigFile)
	if err != nil {
		if m.bus != nil {
			m.bus.Send(packet.NewNotifyErr("respawn: failed to reinstate", name, "SUPERVISION"))
		}

		return
	}

	m.mu.Lock()
	for i, l := range m.loaded {
		if l.Module.Name() == name {
			m.loaded[i] = &container{TypeName: c.TypeName, ConfigFile: c.ConfigFile, Module: fresh, Schedule: c.Schedule}
			break
		}
	}
	m.mu.Unlock()

	if err := fresh.Init(); err != nil {
		if m.bus != nil {
			m.bus.Send(packet.NewNotifyErr("respawn: init failed", name, "SUPERVISION"))
		}

		return
	}

	handle := module.Spawn(fresh, m.aliveInterval)

	m.mu.Lock()
	m.spawned = append(m.spawned, &spawnedModule{
		Handle:        handle,
		Index:         sp.Index,
		Name:          name,
		LastSeenAlive: time.Now(),
		Schedule:      sp.Schedule,
	})
	m.mu.Unlock()

	if m.bus != nil {
		// Drop the dead instance's connection first: the bus has no way to
		// tell old and new connections under the same label apart, so
		// without this a FIRE would fan out to both.
		m.bus.Disconnect(name)
		m.bus.Connect(bus.Connection{
			Label:  name,
			Filter: module.DefaultFilter,
			Inlet:  module.DefaultInlet(fresh),
			Outlet: module.DefaultOutlet(fresh),
		})
	}
}

// FireCyclic publishes BackupCom(FIRE, name) for every spawned module whose
// schedule matches now, skipping any module already fired during this
// minute.
func (m *manager) FireCyclic(now time.Time) {
	if m.bus == nil {
		return
	}

	minute := now.Truncate(time.Minute)

	m.mu.Lock()
	var toFire []string
	for _, sp := range m.spawned {
		if sp.Schedule == nil || !sp.Schedule.Matches(now) {
			continue
		}

		if sp.LastFire.Truncate(time.Minute).Equal(minute) {
			continue
		}

		sp.LastFire = now
		toFire = append(toFire, sp.Name)
	}
	m.mu.Unlock()

	for _, name := range toFire {
		n := name
		m.bus.Send(packet.NewBackupCom(packet.EncodeBackupCommand(packet.BackupCommand{Kind: packet.BackupFire, Name: &n})))
	}
}

// GetModuleList returns every loaded module's name, in load order.
func (m *manager) GetModuleList() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.loaded))
	for i, c := range m.loaded {
		names[i] = c.Module.Name()
	}

	return names
}

// GetSpawnedList returns every spawned module's name, in registration order.
func (m *manager) GetSpawnedList() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.spawned))
	for i, sp := range m.spawned {
		names[i] = sp.Name
	}

	return names
}

// GetStatus reports whether name is Running (spawned), Loaded (known but
// not spawned) or NotFound.
func (m *manager) GetStatus(name string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sp := range m.spawned {
		if sp.Name == name {
			return StatusRunning
		}
	}

	for _, c := range m.loaded {
		if c.Module.Name() == name {
			return StatusLoaded
		}
	}

	return StatusNotFound
}

// JoinAll joins every spawned worker and calls Destroy on its module,
// draining the spawned list. The returned map is keyed by module name.
func (m *manager) JoinAll() map[string]error {
	m.mu.Lock()
	spawned := m.spawned
	m.spawned = nil
	m.mu.Unlock()

	results := make(map[string]error, len(spawned))

	for _, sp := range spawned {
		results[sp.Name] = sp.Handle.Join(m.joinTimeout)

		if err := sp.Handle.Module.Destroy(); err != nil && results[sp.Name] == nil {
			results[sp.Name] = err
		}
	}

	return results
}
