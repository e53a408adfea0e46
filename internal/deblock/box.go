package deblock

// unbox converts a block-contiguous buffer (64 scalars per 8x8 block, block
// (bx,by) at offset (by*(w/8)+bx)*64, intra-block index v*8+u) into a
// planar (row-major, y*w+x) buffer. w and h must both be multiples of 8;
// src and dst must be distinct, equally sized buffers.
func unbox(src, dst []float64, w, h int) {
	wBlocks := w / 8
	i := 0
	for blockY := 0; blockY < h/8; blockY++ {
		for blockX := 0; blockX < wBlocks; blockX++ {
			for inY := 0; inY < 8; inY++ {
				for inX := 0; inX < 8; inX++ {
					dst[idx(blockX*8+inX, blockY*8+inY, w)] = src[i]
					i++
				}
			}
		}
	}
}

// box is the exact inverse of unbox: planar to block-contiguous.
func box(src, dst []float64, w, h int) {
	wBlocks := w / 8
	i := 0
	for blockY := 0; blockY < h/8; blockY++ {
		for blockX := 0; blockX < wBlocks; blockX++ {
			for inY := 0; inY < 8; inY++ {
				for inX := 0; inX < 8; inX++ {
					dst[i] = src[idx(blockX*8+inX, blockY*8+inY, w)]
					i++
				}
			}
		}
	}
}
