package canbus

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ClientCreator builds a Client for one card.
type ClientCreator func(CardParameter) (Client, error)

// ClientFactory maps card brands to client constructors.
type ClientFactory struct {
	mu       sync.RWMutex
	creators map[string]ClientCreator
}

// NewClientFactory returns an empty factory.
func NewClientFactory() *ClientFactory {
	return &ClientFactory{creators: make(map[string]ClientCreator)}
}

// NewDefaultClientFactory returns a factory with the built-in brands
// registered.
func NewDefaultClientFactory() *ClientFactory {
	f := NewClientFactory()
	f.RegisterDefaults()
	return f
}

// Register adds or replaces the constructor for brand.
func (f *ClientFactory) Register(brand string, create ClientCreator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[strings.ToUpper(strings.TrimSpace(brand))] = create
}

// RegisterDefaults registers FAKE and SLCAN.
func (f *ClientFactory) RegisterDefaults() {
	f.Register(BrandFake, func(CardParameter) (Client, error) {
		return NewFakeClient(), nil
	})
	f.Register(BrandSLCAN, func(p CardParameter) (Client, error) {
		return NewSLCANClient(p, OpenSerialPort)
	})
}

// Create builds the client for p.Brand.
func (f *ClientFactory) Create(p CardParameter) (Client, error) {
	f.mu.RLock()
	create, ok := f.creators[p.NormalizedBrand()]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown can card brand %q (registered: %s)", p.Brand, strings.Join(f.Brands(), ", "))
	}
	c, err := create(p)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("can card brand %q produced no client", p.Brand)
	}
	return c, nil
}

// Brands returns the registered brand names, sorted.
func (f *ClientFactory) Brands() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.creators))
	for b := range f.creators {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
