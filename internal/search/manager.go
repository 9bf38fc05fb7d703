package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/kayz/sift/internal/config"
	"github.com/kayz/sift/internal/logger"
)

var (
	ErrEmptyObjective = errors.New("objective is required")
	ErrNoEngine       = errors.New("no available search engine")
)

type Manager struct {
	registry      *Registry
	engines       map[string]Engine
	primaryEngine string
	planner       Planner
	maxQueries    int
	mu            sync.RWMutex
}

func NewManager(cfg config.SearchConfig, registry *Registry) (*Manager, error) {
	m := &Manager{
		registry:   registry,
		engines:    make(map[string]Engine),
		maxQueries: 4,
	}

	for _, engineCfg := range cfg.Engines {
		if !engineCfg.Enabled || engineCfg.APIKey == "" {
			continue
		}
		if err := m.AddEngine(SearchEngineConfig{
			Name:     engineCfg.Name,
			Type:     engineCfg.Type,
			APIKey:   engineCfg.APIKey,
			BaseURL:  engineCfg.BaseURL,
			Enabled:  engineCfg.Enabled,
			Priority: engineCfg.Priority,
			Options:  engineCfg.Options,
		}); err != nil {
			return nil, err
		}
	}

	if cfg.PrimaryEngine != "" {
		if err := m.SetPrimaryEngine(cfg.PrimaryEngine); err != nil {
			logger.Warn("[Search] primary engine ignored: %v", err)
		}
	}

	return m, nil
}

// SetPlanner installs the planner used for agentic requests on engines
// without native mode support.
func (m *Manager) SetPlanner(p Planner, maxQueries int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planner = p
	if maxQueries > 0 {
		m.maxQueries = maxQueries
	}
}

func (m *Manager) AddEngine(config SearchEngineConfig) error {
	engine, err := m.registry.CreateEngine(config)
	if err != nil {
		return err
	}
	m.Register(engine)
	return nil
}

// Register adds an already constructed engine, replacing any engine of the same name.
func (m *Manager) Register(engine Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engines[engine.Name()] = engine
}

func (m *Manager) ListEngines() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.engines))
	for name := range m.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) SetPrimaryEngine(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.engines[name]; !ok {
		return fmt.Errorf("engine not found: %s", name)
	}

	m.primaryEngine = name
	return nil
}

// Search runs req against the enabled engines, primary first and then by
// priority. The first engine returning results wins; when every engine
// succeeds with nothing, the first empty response is returned.
func (m *Manager) Search(ctx context.Context, req Request) (*Response, error) {
	req, err := normalize(req)
	if err != nil {
		return nil, err
	}

	engines := m.ordered()
	if len(engines) == 0 {
		return nil, ErrNoEngine
	}

	var (
		lastErr error
		empty   *Response
		planned []string
	)
	for _, engine := range engines {
		engineReq := req
		if m.needsPlan(engine, req) {
			if planned == nil {
				planned = m.plan(ctx, req.Objective)
			}
			engineReq.Queries = planned
		}

		resp, err := engine.Search(ctx, engineReq)
		if err != nil {
			logger.Warn("[Search] engine %s failed: %v", engine.Name(), err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		finish(resp, engineReq, engine)
		if len(resp.Results) > 0 {
			logger.Info("[Search] %s returned %d result(s) in %v", engine.Name(), len(resp.Results), resp.Duration)
			return resp, nil
		}
		if empty == nil {
			empty = resp
		}
	}

	if empty != nil {
		return empty, nil
	}
	return nil, lastErr
}

func (m *Manager) SearchWithEngine(ctx context.Context, engineName string, req Request) (*Response, error) {
	req, err := normalize(req)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	engine, ok := m.engines[engineName]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("engine not found: %s", engineName)
	}

	if m.needsPlan(engine, req) {
		req.Queries = m.plan(ctx, req.Objective)
	}
	resp, err := engine.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	finish(resp, req, engine)
	return resp, nil
}

func normalize(req Request) (Request, error) {
	req.Objective = strings.TrimSpace(req.Objective)
	if req.Objective == "" {
		return req, ErrEmptyObjective
	}
	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return req, err
	}
	req.Mode = mode
	req.Queries = CleanQueries(req.Queries)
	return req, nil
}

func finish(resp *Response, req Request, engine Engine) {
	if resp.SearchID == "" {
		resp.SearchID = "search_" + uuid.NewString()
	}
	if resp.Engine == "" {
		resp.Engine = engine.Name()
	}
	resp.Objective = req.Objective
	resp.Mode = req.Mode
	if resp.Results == nil {
		resp.Results = []Result{}
	}
}

func (m *Manager) needsPlan(engine Engine, req Request) bool {
	if req.Mode != ModeAgentic || len(req.Queries) > 0 {
		return false
	}
	if ma, ok := engine.(ModeAware); ok && ma.NativeModes() {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.planner != nil
}

// plan expands the objective into queries. Planner failures fall back to the
// objective alone.
func (m *Manager) plan(ctx context.Context, objective string) []string {
	m.mu.RLock()
	planner, maxQueries := m.planner, m.maxQueries
	m.mu.RUnlock()

	queries, err := planner.Plan(ctx, objective, maxQueries)
	if err != nil || len(queries) == 0 {
		if err != nil {
			logger.Warn("[Search] planner failed, using objective: %v", err)
		}
		return []string{objective}
	}
	logger.Debug("[Search] planned %d queries for %q", len(queries), objective)
	return queries
}

func (m *Manager) ordered() []Engine {
	m.mu.RLock()
	engines := make([]Engine, 0, len(m.engines))
	for _, e := range m.engines {
		if e.IsEnabled() {
			engines = append(engines, e)
		}
	}
	primary := m.primaryEngine
	m.mu.RUnlock()

	sort.SliceStable(engines, func(i, j int) bool {
		pi, pj := engines[i].Name() == primary, engines[j].Name() == primary
		if pi != pj {
			return pi
		}
		if engines[i].Priority() != engines[j].Priority() {
			return engines[i].Priority() < engines[j].Priority()
		}
		return engines[i].Name() < engines[j].Name()
	})
	return engines
}
