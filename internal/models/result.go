package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PortMap maps a port key to the addresses having that port open.
// Keys keep insertion order.
type PortMap struct {
	m *orderedmap.OrderedMap[string, []string]
}

// NewPortMap creates an empty PortMap
func NewPortMap() *PortMap {
	return &PortMap{m: orderedmap.New[string, []string]()}
}

// Add appends an address to the list stored under key
func (pm *PortMap) Add(key, addr string) {
	existing, _ := pm.m.Get(key)
	pm.m.Set(key, append(existing, addr))
}

// Get returns the addresses stored under key
func (pm *PortMap) Get(key string) ([]string, bool) {
	return pm.m.Get(key)
}

// Len returns the number of keys
func (pm *PortMap) Len() int {
	return pm.m.Len()
}

// Keys returns the keys in insertion order
func (pm *PortMap) Keys() []string {
	keys := make([]string, 0, pm.m.Len())
	for pair := pm.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every key in insertion order
func (pm *PortMap) Each(fn func(key string, addrs []string)) {
	for pair := pm.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Merge concatenates the lists of other onto pm.
// Keys new to pm are appended in other's order.
func (pm *PortMap) Merge(other *PortMap) {
	other.Each(func(key string, addrs []string) {
		existing, _ := pm.m.Get(key)
		merged := make([]string, 0, len(existing)+len(addrs))
		merged = append(merged, existing...)
		pm.m.Set(key, append(merged, addrs...))
	})
}

// Update replaces the lists of pm with those of other, key by key.
// A replaced key keeps its original position.
func (pm *PortMap) Update(other *PortMap) {
	other.Each(func(key string, addrs []string) {
		pm.m.Set(key, append([]string(nil), addrs...))
	})
}

// Count returns the total number of addresses across all keys
func (pm *PortMap) Count() int {
	total := 0
	pm.Each(func(_ string, addrs []string) {
		total += len(addrs)
	})
	return total
}
