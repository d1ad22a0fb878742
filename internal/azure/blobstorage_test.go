package azure

import (
	"context"
	"errors"
	"testing"

	"github.com/allsafeASM/portgroup/internal/common"
)

func TestBlobName(t *testing.T) {
	tests := []struct {
		prefix, runID, file, want string
	}{
		{"portgroup", "run-1", "80_tcp.txt", "portgroup/run-1/80_tcp.txt"},
		{"portgroup", "run-1", "out/dir/53_udp.txt", "portgroup/run-1/53_udp.txt"},
		{"", "run-2", "443_tcp.txt", "run-2/443_tcp.txt"},
	}

	for _, tt := range tests {
		if got := BlobName(tt.prefix, tt.runID, tt.file); got != tt.want {
			t.Errorf("BlobName(%q, %q, %q) = %q, want %q", tt.prefix, tt.runID, tt.file, got, tt.want)
		}
	}
}

func TestInputBlobName(t *testing.T) {
	if got := InputBlobName("az://reports/week1.xml"); got != "reports/week1.xml" {
		t.Errorf("Expected reports/week1.xml, got %s", got)
	}
	if got := InputBlobName("local.xml"); got != "local.xml" {
		t.Errorf("Expected local name to be unchanged, got %s", got)
	}
}

func TestNewBlobStorageClientRunID(t *testing.T) {
	client, err := NewBlobStorageClient("UseDevelopmentStorage=true", "scans", "portgroup")
	if err != nil {
		t.Skipf("Skipping: development storage connection string not supported: %v", err)
	}
	if len(client.RunID()) != 36 {
		t.Errorf("Expected a uuid run id, got %q", client.RunID())
	}
}

func TestNewBlobStorageClientInvalid(t *testing.T) {
	if _, err := NewBlobStorageClient("not a connection string", "scans", "portgroup"); err == nil {
		t.Error("Expected error for an invalid connection string")
	}
}

func TestClassifyDownloadError(t *testing.T) {
	err := classifyDownloadError("week/a.xml", context.DeadlineExceeded)
	if !common.IsType(err, common.ErrorTypeStorage) {
		t.Errorf("Expected storage error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected the cause to be wrapped, got %v", err)
	}
}
