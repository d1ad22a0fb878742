package parser

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/allsafeASM/portgroup/internal/common"
	"github.com/allsafeASM/portgroup/internal/models"
)

const sampleReport = `<?xml version="1.0" encoding="UTF-8"?>
<nmaprun scanner="nmap">
  <host>
    <status state="up"/>
    <address addr="10.0.0.5" addrtype="ipv4"/>
    <address addr="00:11:22:33:44:55" addrtype="mac" vendor="Acme"/>
    <hostnames><hostname name="web.example.com" type="PTR"/></hostnames>
    <ports>
      <port protocol="tcp" portid="80">
        <state state="open" reason="syn-ack"/>
        <service name="http" product="nginx" version="1.18.0"/>
      </port>
      <port protocol="tcp" portid="443">
        <state state="open"/>
        <service name="https" tunnel="ssl" ostype="Linux"/>
      </port>
      <port protocol="tcp" portid="22">
        <state state="closed"/>
      </port>
    </ports>
  </host>
  <host>
    <address addr="fe80::1" addrtype="ipv6"/>
    <ports>
      <port protocol="udp" portid="53"><state state="open"/></port>
    </ports>
  </host>
</nmaprun>`

func TestParse(t *testing.T) {
	doc, err := Parse("sample.xml", strings.NewReader(sampleReport))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.Source != "sample.xml" {
		t.Errorf("Expected source 'sample.xml', got %s", doc.Source)
	}
	if len(doc.Hosts) != 2 {
		t.Fatalf("Expected 2 hosts, got %d", len(doc.Hosts))
	}

	host := doc.Hosts[0]
	if ip, ok := host.IPv4(); !ok || ip != "10.0.0.5" {
		t.Errorf("Expected IPv4 10.0.0.5, got %q (%v)", ip, ok)
	}
	if len(host.Addresses) != 2 || host.Addresses[1].Vendor != "Acme" {
		t.Errorf("Unexpected addresses: %+v", host.Addresses)
	}
	if len(host.Hostnames) != 1 || host.Hostnames[0] != "web.example.com" {
		t.Errorf("Unexpected hostnames: %v", host.Hostnames)
	}
	if len(host.Ports) != 3 {
		t.Fatalf("Expected 3 ports, got %d", len(host.Ports))
	}

	http := host.Ports[0]
	if http.Key() != "80/tcp" || !http.IsOpen() {
		t.Errorf("Unexpected first port: %s state=%s", http.Key(), http.State)
	}
	if http.Host != host {
		t.Error("Expected port to reference its owning host")
	}
	if http.Node == nil || http.Node.SelectAttr("portid") != "80" {
		t.Error("Expected port to keep its source node")
	}
	if http.ServiceName() != "http" || http.Service.Product != "nginx" {
		t.Errorf("Unexpected service: %+v", http.Service)
	}

	https := host.Ports[1]
	if https.Service.Tunnel != "ssl" || https.Service.OSType != "Linux" {
		t.Errorf("Unexpected https service: %+v", https.Service)
	}
	if https.Service.Attributes["ostype"] != "Linux" {
		t.Errorf("Expected raw attributes to be kept, got %v", https.Service.Attributes)
	}

	if host.Ports[2].IsOpen() {
		t.Error("Expected port 22 to be closed")
	}
	if host.Ports[2].ServiceName() != "" {
		t.Error("Expected no service for port 22")
	}

	if _, ok := doc.Hosts[1].IPv4(); ok {
		t.Error("Expected IPv6-only host to have no IPv4 address")
	}

	if open := doc.OpenPorts(); len(open) != 3 {
		t.Errorf("Expected 3 open ports, got %d", len(open))
	}
}

func TestParseMalformed(t *testing.T) {
	inputs := map[string]string{
		"truncated": `<nmaprun><host><address addr="1.2.3.4" addrtype="ipv4"/>`,
		"mismatch":  `<nmaprun><host></nmaprun>`,
		"empty":     ``,
		"text":      `not xml at all`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse(name, strings.NewReader(input))
			if err == nil {
				t.Fatalf("Expected parse error, got document with %d hosts", len(doc.Hosts))
			}
			if !common.IsType(err, common.ErrorTypeParse) {
				t.Errorf("Expected parse error type, got %v", err)
			}
		})
	}
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.xml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !common.IsType(err, common.ErrorTypeNotFound) {
		t.Errorf("Expected not_found error, got %v", err)
	}
}

func TestWalk(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.xml")
	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(good, []byte(sampleReport), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("<nmaprun>"), 0644); err != nil {
		t.Fatal(err)
	}

	var seen []string
	diagnostics := Walk([]string{bad, good, filepath.Join(dir, "missing.xml")}, nil, func(doc *models.ScanDocument) {
		seen = append(seen, doc.Source)
	})

	if len(seen) != 1 || seen[0] != good {
		t.Errorf("Expected only %s to be parsed, got %v", good, seen)
	}
	if len(diagnostics) != 2 {
		t.Fatalf("Expected 2 diagnostics, got %d", len(diagnostics))
	}
	if diagnostics[0].Source != bad || !common.IsType(diagnostics[0].Err, common.ErrorTypeParse) {
		t.Errorf("Unexpected first diagnostic: %v", diagnostics[0])
	}
	if !common.IsType(diagnostics[1].Err, common.ErrorTypeNotFound) {
		t.Errorf("Unexpected second diagnostic: %v", diagnostics[1])
	}
}

func TestWalkCustomOpener(t *testing.T) {
	opener := func(name string) (io.ReadCloser, error) {
		if name == "az://reports/a.xml" {
			return io.NopCloser(strings.NewReader(sampleReport)), nil
		}
		return nil, errors.New("unknown input")
	}

	count := 0
	diagnostics := Walk([]string{"az://reports/a.xml", "az://reports/b.xml"}, opener, func(doc *models.ScanDocument) {
		count++
	})
	if count != 1 {
		t.Errorf("Expected 1 parsed document, got %d", count)
	}
	if len(diagnostics) != 1 || diagnostics[0].Source != "az://reports/b.xml" {
		t.Errorf("Unexpected diagnostics: %v", diagnostics)
	}
}
