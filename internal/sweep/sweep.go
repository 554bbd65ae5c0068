// Package sweep orchestrates the bounded-concurrency discovery pass over a
// subnet: ICMP liveness fan-out, neighbor and reverse-DNS enrichment, an
// ARP-table fallback for hosts that did not answer, and the hand-off to the
// reconciliation engine.
package sweep

import (
	"context"
	"errors"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nobrega8/netscan2/internal/event"
	"github.com/nobrega8/netscan2/internal/netif"
	"github.com/nobrega8/netscan2/pkg/models"
)

// State is the engine's lifecycle phase.
type State string

const (
	StateIdle        State = "idle"
	StateResolving   State = "resolving-interface"
	StateSweeping    State = "sweeping"
	StateReconciling State = "reconciling"
)

// ErrSweepInProgress is returned by Start while a sweep is already running;
// a start request during a sweep is a no-op.
var ErrSweepInProgress = errors.New("a sweep is already in progress")

// LivenessProber checks whether a host answers a reachability probe.
type LivenessProber interface {
	IsAlive(ctx context.Context, ip string) bool
}

// NeighborSource reads the system neighbor/ARP table.
type NeighborSource interface {
	// Resolve returns the resolved MAC for ip, or "" when absent/incomplete.
	Resolve(ctx context.Context, ip string) string
	// Snapshot dumps the full table as IP -> MAC.
	Snapshot(ctx context.Context) map[string]string
}

// HostnameSource performs bounded reverse DNS lookups.
type HostnameSource interface {
	Resolve(ctx context.Context, ip string) string
}

// BrandSource maps a hardware address to a vendor name.
type BrandSource interface {
	Lookup(mac string) string
}

// NetworkNamer reports the currently associated wireless network name.
type NetworkNamer interface {
	CurrentSSID(ctx context.Context) (string, error)
}

// Reconciler merges a sweep's device list into the persisted catalog.
type Reconciler interface {
	Merge(networkName string, devices []*models.Device)
}

// InterfaceSelector resolves the active IPv4 interface. Injected so tests
// can run sweeps without touching real interfaces.
type InterfaceSelector func() (*models.InterfaceInfo, error)

// Engine runs discovery sweeps. At most one sweep is in flight at a time;
// within a sweep at most cfg.Concurrency probes run at any instant.
type Engine struct {
	cfg         Config
	selectIface InterfaceSelector
	pinger      LivenessProber
	neighbors   NeighborSource
	hostnames   HostnameSource
	brands      BrandSource
	namer       NetworkNamer
	reconciler  Reconciler
	bus         *event.Bus
	logger      *zap.Logger

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	last    *models.SweepResult
	running bool
	wg      sync.WaitGroup
}

// NewEngine creates a sweep engine. selectIface may be nil, in which case
// the system interface list is used.
func NewEngine(
	cfg Config,
	selectIface InterfaceSelector,
	pinger LivenessProber,
	neighbors NeighborSource,
	hostnames HostnameSource,
	brands BrandSource,
	namer NetworkNamer,
	reconciler Reconciler,
	bus *event.Bus,
	logger *zap.Logger,
) *Engine {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if selectIface == nil {
		selectIface = netif.Select
	}
	return &Engine{
		cfg:         cfg,
		selectIface: selectIface,
		pinger:      pinger,
		neighbors:   neighbors,
		hostnames:   hostnames,
		brands:      brands,
		namer:       namer,
		reconciler:  reconciler,
		bus:         bus,
		logger:      logger,
		state:       StateIdle,
	}
}

// State returns the engine's current phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastResult returns the most recent sweep result, or nil before the first
// sweep.
func (e *Engine) LastResult() *models.SweepResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Start launches a sweep in the background. Returns ErrSweepInProgress if
// one is already running.
func (e *Engine) Start(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return "", ErrSweepInProgress
	}
	e.running = true
	sweepCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()

	id := uuid.New().String()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		e.run(sweepCtx, id)
	}()
	return id, nil
}

// Stop requests cancellation of the running sweep, if any. In-flight probes
// are not forcibly killed; no further hosts are admitted and no
// reconciliation occurs for a cancelled sweep.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until any background sweep has finished. Used during shutdown.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Run executes one sweep synchronously. Returns ErrSweepInProgress if a
// background sweep is running.
func (e *Engine) Run(ctx context.Context) (*models.SweepResult, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrSweepInProgress
	}
	e.running = true
	e.mu.Unlock()

	return e.run(ctx, uuid.New().String()), nil
}

// probeOutcome is one worker's report for a single host. Device is nil when
// the host did not answer the liveness probe.
type probeOutcome struct {
	device *models.Device
}

func (e *Engine) run(ctx context.Context, id string) *models.SweepResult {
	res := &models.SweepResult{
		ID:        id,
		StartedAt: time.Now().UTC(),
		Status:    models.SweepStatusRunning,
	}
	defer e.finish(res)

	e.setState(StateResolving)

	iface, err := e.selectIface()
	if err != nil {
		e.logger.Warn("sweep cannot start", zap.Error(err))
		res.Status = models.SweepStatusFailed
		e.publish(ctx, TopicSweepError, ErrorEvent{SweepID: id, Error: err.Error()})
		return res
	}

	subnet := effectiveSubnet(iface)
	hosts := netif.EnumerateHosts(iface.Address, iface.Netmask)
	res.Subnet = subnet.String()
	res.Total = len(hosts)

	e.logger.Info("sweep started",
		zap.String("sweep_id", id),
		zap.String("interface", iface.Name),
		zap.String("subnet", res.Subnet),
		zap.Int("hosts", len(hosts)),
		zap.Int("concurrency", e.cfg.Concurrency),
	)
	e.publish(ctx, TopicSweepStarted, res)

	e.setState(StateSweeping)
	devices := e.fanOut(ctx, id, hosts)

	if ctx.Err() != nil {
		e.logger.Info("sweep cancelled", zap.String("sweep_id", id))
		res.Status = models.SweepStatusCancelled
		e.publish(context.Background(), TopicSweepError, ErrorEvent{SweepID: id, Error: "cancelled"})
		return res
	}

	devices = e.fallbackPass(ctx, subnet, devices)

	sort.Slice(devices, func(i, j int) bool {
		return netif.IPLess(devices[i].IP, devices[j].IP)
	})

	e.setState(StateReconciling)
	name := ""
	if e.namer != nil {
		if ssid, nameErr := e.namer.CurrentSSID(ctx); nameErr == nil {
			name = ssid
		} else {
			e.logger.Debug("network name lookup failed", zap.Error(nameErr))
		}
	}
	res.SSID = name
	e.reconciler.Merge(name, devices)

	res.Status = models.SweepStatusCompleted
	res.Found = len(devices)
	res.Devices = devices

	e.logger.Info("sweep completed",
		zap.String("sweep_id", id),
		zap.Int("hosts", res.Total),
		zap.Int("found", res.Found),
	)
	return res
}

// fanOut probes every host with a fixed-size worker pool. A single consumer
// (this goroutine) collects results, so no shared accumulator is mutated
// concurrently. Progress is reported after each completion and reaches
// total exactly when the last admitted host finishes.
func (e *Engine) fanOut(ctx context.Context, id string, hosts []string) []*models.Device {
	jobs := make(chan string)
	results := make(chan probeOutcome, e.cfg.Concurrency)

	var wg sync.WaitGroup
	for i := 0; i < e.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range jobs {
				results <- probeOutcome{device: e.probeHost(ctx, ip)}
			}
		}()
	}

	// Feeder: admit hosts until done or cancelled.
	go func() {
		defer close(jobs)
		for _, ip := range hosts {
			select {
			case jobs <- ip:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var devices []*models.Device
	processed := 0
	total := len(hosts)
	for outcome := range results {
		processed++
		if outcome.device != nil {
			devices = append(devices, outcome.device)
			e.publish(ctx, TopicSweepDevice, DeviceEvent{SweepID: id, Device: outcome.device})
		}
		e.publish(ctx, TopicSweepProgress, ProgressEvent{
			SweepID:   id,
			Processed: processed,
			Total:     total,
			Found:     len(devices),
		})
	}
	return devices
}

// probeHost checks one host. Returns nil when the host did not answer the
// liveness probe; probe failures never surface as sweep errors.
func (e *Engine) probeHost(ctx context.Context, ip string) *models.Device {
	if !e.pinger.IsAlive(ctx, ip) {
		return nil
	}

	mac := e.neighbors.Resolve(ctx, ip)
	hostname := e.hostnames.Resolve(ctx, ip)

	return e.newDevice(ip, mac, hostname)
}

// fallbackPass recovers hosts that have a cached neighbor entry for the
// swept subnet but did not answer the liveness probe (sleeping devices with
// a recent lease).
func (e *Engine) fallbackPass(ctx context.Context, subnet *net.IPNet, devices []*models.Device) []*models.Device {
	seen := make(map[string]bool, len(devices))
	for _, d := range devices {
		seen[d.IP] = true
	}

	recovered := 0
	for ip, mac := range e.neighbors.Snapshot(ctx) {
		if seen[ip] {
			continue
		}
		parsed := net.ParseIP(ip)
		if parsed == nil || !subnet.Contains(parsed) {
			continue
		}
		devices = append(devices, e.newDevice(ip, mac, e.hostnames.Resolve(ctx, ip)))
		recovered++
	}
	if recovered > 0 {
		e.logger.Debug("neighbor-table fallback recovered hosts", zap.Int("count", recovered))
	}
	return devices
}

func (e *Engine) newDevice(ip, mac, hostname string) *models.Device {
	brand := ""
	if mac != "" && e.brands != nil {
		brand = e.brands.Lookup(mac)
	}
	return &models.Device{
		ID:       uuid.New().String(),
		IP:       ip,
		MAC:      mac,
		Hostname: hostname,
		Brand:    brand,
		LastSeen: time.Now().UTC(),
		Status:   models.DeviceStatusOnline,
	}
}

// effectiveSubnet returns the subnet the sweep actually enumerates, with the
// prefix clamp applied (see netif.EnumerateHosts).
func effectiveSubnet(iface *models.InterfaceInfo) *net.IPNet {
	prefixLen, bits := iface.Netmask.Size()
	if bits != 32 || prefixLen < 24 || prefixLen > 30 {
		prefixLen = 24
	}
	mask := net.CIDRMask(prefixLen, 32)
	return &net.IPNet{IP: iface.Address.Mask(mask), Mask: mask}
}

func (e *Engine) finish(res *models.SweepResult) {
	res.EndedAt = time.Now().UTC()

	sweepsTotal.WithLabelValues(res.Status).Inc()
	if res.Status == models.SweepStatusCompleted {
		lastSweepDevices.Set(float64(res.Found))
		sweepDuration.Observe(res.EndedAt.Sub(res.StartedAt).Seconds())
	}

	// Terminal event uses a fresh context (the sweep context may already be
	// cancelled) and dispatches asynchronously so a slow subscriber, such as
	// the history write, cannot delay the engine's return to idle.
	e.publishAsync(context.Background(), TopicSweepCompleted, res)

	e.mu.Lock()
	e.state = StateIdle
	e.running = false
	e.cancel = nil
	e.last = res
	e.mu.Unlock()
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) publish(ctx context.Context, topic string, payload any) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(ctx, event.Event{
		Topic:     topic,
		Source:    "sweep",
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func (e *Engine) publishAsync(ctx context.Context, topic string, payload any) {
	if e.bus == nil {
		return
	}
	e.bus.PublishAsync(ctx, event.Event{
		Topic:     topic,
		Source:    "sweep",
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
