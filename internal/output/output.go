package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/allsafeASM/portgroup/internal/common"
	"github.com/allsafeASM/portgroup/internal/models"
	"github.com/allsafeASM/portgroup/internal/utils"
	"github.com/projectdiscovery/gologger"
)

// Result is the JSON line written for one port key
type Result struct {
	Key      string   `json:"key"`
	Port     string   `json:"port"`
	Protocol string   `json:"protocol,omitempty"`
	Hosts    []string `json:"hosts"`
}

// Printer writes results to an output stream
type Printer struct {
	w    io.Writer
	json bool
}

// NewPrinter creates a printer writing plain lines, or JSON lines when
// jsonLines is set
func NewPrinter(w io.Writer, jsonLines bool) *Printer {
	return &Printer{w: w, json: jsonLines}
}

// PrintPortMap writes one line per port key, e.g. "80/tcp: [10.0.0.1 10.0.0.2]"
func (p *Printer) PrintPortMap(pm *models.PortMap) error {
	var err error
	pm.Each(func(key string, addrs []string) {
		if err != nil {
			return
		}
		if p.json {
			err = p.writeJSON(key, addrs)
			return
		}
		_, err = fmt.Fprintf(p.w, "%s: [%s]\n", key, strings.Join(addrs, " "))
	})
	return err
}

func (p *Printer) writeJSON(key string, addrs []string) error {
	port, protocol, _ := strings.Cut(key, "/")
	line, err := json.Marshal(Result{
		Key:      key,
		Port:     port,
		Protocol: protocol,
		Hosts:    addrs,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(line))
	return err
}

// PrintURLs writes one URL per host and port, the http block first
func (p *Printer) PrintURLs(httpPorts, httpsPorts *models.PortMap) error {
	var err error
	write := func(scheme string, pm *models.PortMap) {
		pm.Each(func(port string, addrs []string) {
			for _, addr := range addrs {
				if err != nil {
					return
				}
				_, err = fmt.Fprintln(p.w, URL(scheme, addr, port))
			}
		})
	}
	write("http", httpPorts)
	write("https", httpsPorts)
	return err
}

// PrintWrittenFiles writes the summary line naming the files written.
// Nothing is printed when no file was written.
func (p *Printer) PrintWrittenFiles(files []string) error {
	if len(files) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "Written output to files: %s\n", strings.Join(files, " "))
	return err
}

// URL formats a service URL, e.g. "https://10.0.0.5:8443/"
func URL(scheme, addr, port string) string {
	return fmt.Sprintf("%s://%s:%s/", scheme, addr, port)
}

// FileName returns the file name for a port key, e.g. "53/udp" -> "53_udp.txt"
func FileName(key string) string {
	return strings.ReplaceAll(key, "/", "_") + ".txt"
}

// WritePortFiles writes one file per port key into dir, one address per
// line, overwriting existing files. It returns the written paths in key order.
func WritePortFiles(dir string, pm *models.PortMap, perm os.FileMode) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, common.NewIOError("failed to prepare output directory", err)
	}

	var written []string
	for _, key := range pm.Keys() {
		addrs, _ := pm.Get(key)
		path := filepath.Join(dir, FileName(key))
		if err := utils.WriteLinesToFile(path, addrs, perm); err != nil {
			return written, common.NewIOError("failed to write port file", err)
		}
		gologger.Verbose().Msgf("Wrote %d hosts to %s", len(addrs), path)
		written = append(written, path)
	}

	return written, nil
}
