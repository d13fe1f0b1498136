package platform

import (
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"msd/internal/providers"
	"msd/internal/structures"
)

const routesFileName = "routes.json"

// RouteBook remembers the delivery route last seen for each group so that
// scheduled pushes can address groups without an inbound request in flight.
type RouteBook struct {
	mu     sync.Mutex
	path   string
	routes map[string]string
	logger providers.Logger
}

func NewRouteBook(conf *structures.Config, logger providers.Logger) (*RouteBook, error) {
	rb := &RouteBook{
		path:   filepath.Join(conf.Data.Dir, routesFileName),
		routes: make(map[string]string),
		logger: logger,
	}
	data, err := os.ReadFile(rb.path)
	if err != nil {
		if os.IsNotExist(err) {
			return rb, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &rb.routes); err != nil {
		logger.Warnf(providers.TypeApp, "Route book unreadable, starting empty: %s", err)
		rb.routes = make(map[string]string)
	}
	return rb, nil
}

// Learn records the route for a group and persists the book when it changed.
func (rb *RouteBook) Learn(groupID, route string) {
	if route == "" {
		return
	}
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.routes[groupID] == route {
		return
	}
	rb.routes[groupID] = route
	if err := rb.persist(); err != nil {
		rb.logger.Warnf(providers.TypeApp, "Failed to persist route book: %s", err)
	}
}

// Route returns the known route for a group, or false when none was learned.
func (rb *RouteBook) Route(groupID string) (string, bool) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	route, ok := rb.routes[groupID]
	return route, ok
}

func (rb *RouteBook) persist() error {
	data, err := json.Marshal(rb.routes)
	if err != nil {
		return err
	}
	tmp := rb.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, rb.path)
}
