package parser

import (
	"errors"
	"io"
	"os"

	"github.com/allsafeASM/portgroup/internal/common"
	"github.com/allsafeASM/portgroup/internal/models"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/projectdiscovery/gologger"
)

var errNoRoot = errors.New("document has no root element")

var (
	rootExpr     = xpath.MustCompile("/*")
	hostExpr     = xpath.MustCompile("//host")
	addressExpr  = xpath.MustCompile("address")
	hostnameExpr = xpath.MustCompile("hostnames/hostname")
	portExpr     = xpath.MustCompile("ports/port")
	stateExpr    = xpath.MustCompile("state")
	serviceExpr  = xpath.MustCompile("service")
)

// OpenFunc opens a named input for reading
type OpenFunc func(name string) (io.ReadCloser, error)

// OpenFile opens a local scan report
func OpenFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, common.NewNotFoundError("failed to open "+name, err)
	}
	return f, nil
}

// Parse reads a scan report and builds the typed document.
// Malformed XML yields a parse error; nothing is returned for it.
func Parse(source string, r io.Reader) (*models.ScanDocument, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, common.NewParseError(source, err)
	}
	if xmlquery.QuerySelector(root, rootExpr) == nil {
		return nil, common.NewParseError(source, errNoRoot)
	}

	doc := &models.ScanDocument{
		Source: source,
		Root:   root,
	}
	for _, hostNode := range xmlquery.QuerySelectorAll(root, hostExpr) {
		doc.Hosts = append(doc.Hosts, buildHost(hostNode))
	}

	gologger.Debug().Msgf("Parsed %s: %d hosts", source, len(doc.Hosts))
	return doc, nil
}

// Walk parses each input in order and hands every usable document to fn.
// Inputs that cannot be opened or parsed are returned as diagnostics so the
// caller decides whether to continue.
func Walk(inputs []string, open OpenFunc, fn func(*models.ScanDocument)) []models.Diagnostic {
	if open == nil {
		open = OpenFile
	}

	var diagnostics []models.Diagnostic
	for _, input := range inputs {
		doc, err := parseInput(input, open)
		if err != nil {
			diagnostics = append(diagnostics, models.Diagnostic{Source: input, Err: err})
			continue
		}
		fn(doc)
	}
	return diagnostics
}

func parseInput(name string, open OpenFunc) (*models.ScanDocument, error) {
	rc, err := open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Parse(name, rc)
}

func buildHost(node *xmlquery.Node) *models.Host {
	host := &models.Host{}

	for _, a := range xmlquery.QuerySelectorAll(node, addressExpr) {
		host.Addresses = append(host.Addresses, models.Address{
			Addr:     a.SelectAttr("addr"),
			AddrType: a.SelectAttr("addrtype"),
			Vendor:   a.SelectAttr("vendor"),
		})
	}

	for _, hn := range xmlquery.QuerySelectorAll(node, hostnameExpr) {
		if name := hn.SelectAttr("name"); name != "" {
			host.Hostnames = append(host.Hostnames, name)
		}
	}

	for _, pn := range xmlquery.QuerySelectorAll(node, portExpr) {
		port := &models.Port{
			Number:   pn.SelectAttr("portid"),
			Protocol: pn.SelectAttr("protocol"),
			Host:     host,
			Node:     pn,
		}
		if state := xmlquery.QuerySelector(pn, stateExpr); state != nil {
			port.State = state.SelectAttr("state")
		}
		if svc := xmlquery.QuerySelector(pn, serviceExpr); svc != nil {
			port.Service = buildService(svc)
		}
		host.Ports = append(host.Ports, port)
	}

	return host
}

func buildService(node *xmlquery.Node) *models.Service {
	svc := &models.Service{
		Name:       node.SelectAttr("name"),
		Product:    node.SelectAttr("product"),
		Version:    node.SelectAttr("version"),
		Tunnel:     node.SelectAttr("tunnel"),
		OSType:     node.SelectAttr("ostype"),
		Attributes: make(map[string]string, len(node.Attr)),
	}
	for _, attr := range node.Attr {
		svc.Attributes[attr.Name.Local] = attr.Value
	}
	return svc
}
