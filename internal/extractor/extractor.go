package extractor

import (
	"github.com/allsafeASM/portgroup/internal/models"
	"github.com/projectdiscovery/gologger"
)

// Web service names recognised by ExtractWebServices
const (
	ServiceHTTP  = "http"
	ServiceHTTPS = "https"
)

// Criteria selects which open ports end up in the result
type Criteria struct {
	Protocols Selection
	// Ports restricts results to these port ids; empty means all ports
	Ports []string
	// Filters must all match the port element
	Filters []*Filter
}

// Extractor re-keys the open ports of scan documents by port and protocol
type Extractor struct {
	criteria Criteria
	ports    map[string]struct{}
}

// New creates an extractor for the given criteria
func New(criteria Criteria) *Extractor {
	ports := make(map[string]struct{}, len(criteria.Ports))
	for _, p := range criteria.Ports {
		ports[p] = struct{}{}
	}
	return &Extractor{
		criteria: criteria,
		ports:    ports,
	}
}

// Criteria returns the criteria the extractor was built with
func (e *Extractor) Criteria() Criteria {
	return e.criteria
}

// Accepts reports whether an open port passes filters, the requested port
// set and the protocol selection, in that order
func (e *Extractor) Accepts(port *models.Port) bool {
	if !port.IsOpen() {
		return false
	}

	for _, f := range e.criteria.Filters {
		if !f.Matches(port) {
			return false
		}
	}

	if len(e.ports) > 0 {
		if _, requested := e.ports[port.Number]; !requested {
			return false
		}
	}

	return e.criteria.Protocols.Allows(port.Protocol)
}

// Extract returns the addresses of every accepted open port keyed by
// "<port>/<protocol>", in document order
func (e *Extractor) Extract(doc *models.ScanDocument) *models.PortMap {
	result := models.NewPortMap()

	for _, port := range doc.OpenPorts() {
		if !e.Accepts(port) {
			continue
		}

		addr, ok := port.Host.IPv4()
		if !ok {
			gologger.Debug().Msgf("Skipping %s in %s: host has no IPv4 address", port.Key(), doc.Source)
			continue
		}

		result.Add(port.Key(), addr)
	}

	return result
}

// ExtractWebServices returns the open ports whose service is exactly http
// or https, keyed by bare port number. No other criteria apply.
func ExtractWebServices(doc *models.ScanDocument) (httpPorts, httpsPorts *models.PortMap) {
	httpPorts = models.NewPortMap()
	httpsPorts = models.NewPortMap()

	for _, port := range doc.OpenPorts() {
		var target *models.PortMap
		switch port.ServiceName() {
		case ServiceHTTP:
			target = httpPorts
		case ServiceHTTPS:
			target = httpsPorts
		default:
			continue
		}

		addr, ok := port.Host.IPv4()
		if !ok {
			gologger.Debug().Msgf("Skipping %s service on %s in %s: host has no IPv4 address",
				port.ServiceName(), port.Number, doc.Source)
			continue
		}
		target.Add(port.Number, addr)
	}

	return httpPorts, httpsPorts
}
