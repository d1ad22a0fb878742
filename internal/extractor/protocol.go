package extractor

import "fmt"

// Transport protocols reported by the scanner
const (
	ProtocolTCP = "tcp"
	ProtocolUDP = "udp"
)

// Selection is the set of protocols the caller asked for
type Selection int

const (
	SelectNone Selection = iota
	SelectTCP
	SelectUDP
	SelectBoth
)

// NewSelection builds a Selection from the tcp/udp toggles
func NewSelection(tcp, udp bool) Selection {
	switch {
	case tcp && udp:
		return SelectBoth
	case tcp:
		return SelectTCP
	case udp:
		return SelectUDP
	default:
		return SelectNone
	}
}

func (s Selection) String() string {
	switch s {
	case SelectNone:
		return "none"
	case SelectTCP:
		return "tcp"
	case SelectUDP:
		return "udp"
	case SelectBoth:
		return "both"
	default:
		return fmt.Sprintf("selection(%d)", int(s))
	}
}

// protocolTable lists the protocols that pass for a restricting selection.
// Selections missing from the table do not restrict: asking for both tcp and
// udp lets every protocol through, same as asking for neither.
var protocolTable = map[Selection]map[string]bool{
	SelectTCP: {ProtocolTCP: true},
	SelectUDP: {ProtocolUDP: true},
}

// Allows reports whether a port with the given protocol passes the selection
func (s Selection) Allows(protocol string) bool {
	allowed, restricted := protocolTable[s]
	if !restricted {
		return true
	}
	return allowed[protocol]
}
