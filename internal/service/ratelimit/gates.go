package ratelimit

// Gates bundles the three limiter instances the system runs: inbound keyed by
// client IP, outbound keyed by provider, push keyed by connection id.
type Gates struct {
	Inbound  *Limiter
	Outbound *Limiter
	Push     *Limiter
}

// Close stops all three sweepers.
func (g *Gates) Close() {
	g.Inbound.Close()
	g.Outbound.Close()
	g.Push.Close()
}
