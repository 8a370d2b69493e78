package partitions

// MortonKey interleaves the bits of up to three coordinates, each quantized
// to 21 bits over [lo[d], hi[d]]. Nearby points tend to receive nearby keys.
func MortonKey(x, lo, hi []float64) uint64 {
	var key uint64
	for d := 0; d < len(x) && d < 3; d++ {
		var q uint64
		if w := hi[d] - lo[d]; w > 0 {
			f := (x[d] - lo[d]) / w
			switch {
			case f <= 0:
			case f >= 1:
				q = 1<<21 - 1
			default:
				q = uint64(f * (1<<21 - 1))
			}
		}
		key |= spread3(q) << d
	}
	return key
}

// spread3 moves bit i of v to bit 3i
func spread3(v uint64) uint64 {
	v &= 0x1fffff
	v = (v | v<<32) & 0x1f00000000ffff
	v = (v | v<<16) & 0x1f0000ff0000ff
	v = (v | v<<8) & 0x100f00f00f00f00f
	v = (v | v<<4) & 0x10c30c30c30c30c3
	v = (v | v<<2) & 0x1249249249249249
	return v
}
