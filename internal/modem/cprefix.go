package modem

// Cyclic prefix handling. The prefix is a copy of the symbol tail placed
// before the symbol so that channel delay spread smears into the copy
// instead of the neighboring symbol. The prefix length is validated at
// configuration time, so these helpers never fail.

// prependCyclicPrefix writes core preceded by its last cpLen samples into
// dst. len(dst) must be len(core)+cpLen.
func prependCyclicPrefix(dst, core []complex128, cpLen int) {
	copy(dst, core[len(core)-cpLen:])
	copy(dst[cpLen:], core)
}

// stripCyclicPrefix drops the first cpLen samples of symbol.
func stripCyclicPrefix(symbol []complex128, cpLen int) []complex128 {
	return symbol[cpLen:]
}
