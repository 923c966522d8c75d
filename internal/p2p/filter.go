package p2p

import "net"

// FilterAddresses drops private, link-local, loopback, and unspecified
// addresses from a PEERS gossip payload before they're added to the peer
// address book (spec.md §6: "the receiver MUST filter private/link-local/
// loopback addresses before adding them").
func FilterAddresses(addresses []string) []string {
	out := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if isRoutable(addr) {
			out = append(out, addr)
		}
	}
	return out
}

func isRoutable(hostPort string) bool {
	host, _, err := net.SplitHostPort(hostPort)
	if err != nil {
		host = hostPort
	}
	ip := net.ParseIP(host)
	if ip == nil {
		// Not a literal IP (e.g. a DNS name); let higher layers resolve
		// and re-check at dial time rather than rejecting here.
		return true
	}
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified() || ip.IsPrivate() {
		return false
	}
	return true
}
