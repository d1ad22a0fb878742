package models

import (
	"github.com/antchfx/xmlquery"
)

// Address types reported by the scanner
const (
	AddrTypeIPv4 = "ipv4"
	AddrTypeIPv6 = "ipv6"
	AddrTypeMAC  = "mac"
)

// PortStateOpen is the only port state the extractor considers
const PortStateOpen = "open"

// ScanDocument represents one parsed scan report
type ScanDocument struct {
	Source string
	Hosts  []*Host

	// Root is kept so structural filters can be evaluated against the
	// original tree. It is released with the document.
	Root *xmlquery.Node
}

// Address represents a single host address
type Address struct {
	Addr     string `json:"addr"`
	AddrType string `json:"addrtype"`
	Vendor   string `json:"vendor,omitempty"`
}

// Host represents a scanned host and the ports reported for it
type Host struct {
	Addresses []Address `json:"addresses"`
	Hostnames []string  `json:"hostnames,omitempty"`
	Ports     []*Port   `json:"ports,omitempty"`
}

// IPv4 returns the first IPv4 address of the host.
// The second return value is false for hosts without one (e.g. IPv6-only).
func (h *Host) IPv4() (string, bool) {
	for _, a := range h.Addresses {
		if a.AddrType == AddrTypeIPv4 && a.Addr != "" {
			return a.Addr, true
		}
	}
	return "", false
}

// Service describes the service detected on a port
type Service struct {
	Name    string `json:"name"`
	Product string `json:"product,omitempty"`
	Version string `json:"version,omitempty"`
	Tunnel  string `json:"tunnel,omitempty"`
	OSType  string `json:"ostype,omitempty"`
	// Attributes holds every raw attribute of the service element
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Port represents a single port record of a host
type Port struct {
	Number   string   `json:"portid"` // kept as a string, scanners may report non-numeric ids
	Protocol string   `json:"protocol"`
	State    string   `json:"state"`
	Service  *Service `json:"service,omitempty"`

	// Host is the owning host, set at parse time
	Host *Host `json:"-"`
	// Node is the port element in the source tree
	Node *xmlquery.Node `json:"-"`
}

// IsOpen reports whether the port state is open
func (p *Port) IsOpen() bool {
	return p.State == PortStateOpen
}

// ServiceName returns the detected service name or an empty string
func (p *Port) ServiceName() string {
	if p.Service == nil {
		return ""
	}
	return p.Service.Name
}

// Key returns the general-mode key, e.g. "53/udp"
func (p *Port) Key() string {
	return p.Number + "/" + p.Protocol
}

// OpenPorts returns all open ports of the document in document order
func (d *ScanDocument) OpenPorts() []*Port {
	var open []*Port
	for _, h := range d.Hosts {
		for _, p := range h.Ports {
			if p.IsOpen() {
				open = append(open, p)
			}
		}
	}
	return open
}

// Diagnostic records why an input contributed nothing to the results
type Diagnostic struct {
	Source string
	Err    error
}

func (d Diagnostic) Error() string {
	return d.Source + ": " + d.Err.Error()
}
