// Package jpegstream parses baseline JPEG files down to their quantized DCT
// coefficients: it stops where a normal JPEG decoder would begin
// dequantizing and inverse-transforming, since those steps are the
// artifact-reduction core's job, not ingestion's.
package jpegstream

import (
	"bytes"
	"io"
)

// Plane is one color component's quantized coefficient grid as read
// straight off the wire: Coef holds the stored integers (NOT multiplied by
// Quant), in natural (de-zigzagged), block-contiguous order.
type Plane struct {
	H, W  int        // block-aligned dimensions: H%8==0, W%8==0
	Coef  []int32    // len H*W
	Quant [64]uint16 // natural order
}

// Image is a fully ingested 3-component (YCbCr) baseline JPEG.
type Image struct {
	Width, Height int // final pixel dimensions
	Planes        [3]Plane
}

type component struct {
	id              byte
	h, v            int
	tq              int
	widthBlocks     int
	heightBlocks    int
	dcTableSelector int
	acTableSelector int
	dcPred          int
	data            []int32
}

type decoder struct {
	width, height int
	precision     int
	restartInt    int
	components    []*component
	qtables       [4][64]uint16
	dcTables      [4]*huffmanTable
	acTables      [4]*huffmanTable
}

// Decode parses a baseline, 3-component YCbCr JPEG and returns its
// per-plane quantized coefficients and quantization tables. It rejects
// anything outside this tool's scope: non-8-bit precision, component
// counts other than 3, progressive/arithmetic scans, and chroma
// subsampling beyond an integer 2x on either axis.
func Decode(jpegData []byte) (*Image, error) {
	r := newReader(bytes.NewReader(jpegData))

	marker, err := r.readMarker()
	if err != nil {
		return nil, err
	}
	if marker != markerSOI {
		return nil, ErrInvalidSOI
	}

	d := &decoder{}

	for {
		marker, err := r.readMarker()
		if err != nil {
			return nil, err
		}

		switch marker {
		case markerSOF0:
			if err := d.parseSOF(r); err != nil {
				return nil, err
			}
		case markerDQT:
			if err := d.parseDQT(r); err != nil {
				return nil, err
			}
		case markerDHT:
			if err := d.parseDHT(r); err != nil {
				return nil, err
			}
		case markerDRI:
			if err := d.parseDRI(r); err != nil {
				return nil, err
			}
		case markerSOS:
			if err := d.parseSOS(r); err != nil {
				return nil, err
			}
			if err := d.decodeScan(r); err != nil {
				return nil, err
			}
			return d.result()
		case markerEOI:
			return nil, ErrMissingScan
		default:
			if hasLength(marker) {
				if _, err := r.readSegment(); err != nil {
					return nil, err
				}
			}
		}
	}
}

func divCeil(a, b int) int {
	return (a + b - 1) / b
}

func (d *decoder) parseSOF(r *reader) error {
	data, err := r.readSegment()
	if err != nil {
		return err
	}
	if len(data) < 6 {
		return ErrInvalidSOF
	}

	d.precision = int(data[0])
	if d.precision != 8 {
		return ErrUnsupportedPrecision
	}

	d.height = int(data[1])<<8 | int(data[2])
	d.width = int(data[3])<<8 | int(data[4])
	numComponents := int(data[5])
	if d.width <= 0 || d.height <= 0 {
		return ErrInvalidSOF
	}
	if numComponents != 3 {
		return ErrUnsupportedComponents
	}
	if len(data) < 6+numComponents*3 {
		return ErrInvalidSOF
	}

	maxH, maxV := 1, 1
	d.components = make([]*component, numComponents)
	for i := 0; i < numComponents; i++ {
		off := 6 + i*3
		c := &component{
			id: data[off],
			h:  int(data[off+1] >> 4),
			v:  int(data[off+1] & 0x0F),
			tq: int(data[off+2]),
		}
		if c.h <= 0 || c.h > 2 || c.v <= 0 || c.v > 2 {
			return ErrUnsupportedSubsampling
		}
		if c.h > maxH {
			maxH = c.h
		}
		if c.v > maxV {
			maxV = c.v
		}
		d.components[i] = c
	}

	for _, c := range d.components {
		if maxH%c.h != 0 || maxV%c.v != 0 {
			return ErrUnsupportedSubsampling
		}
		c.widthBlocks = divCeil(d.width*c.h, maxH*8)
		c.heightBlocks = divCeil(d.height*c.v, maxV*8)
		c.data = make([]int32, c.widthBlocks*c.heightBlocks*64)
	}

	return nil
}

func (d *decoder) parseDQT(r *reader) error {
	data, err := r.readSegment()
	if err != nil {
		return err
	}

	off := 0
	for off < len(data) {
		pqTq := data[off]
		pq := pqTq >> 4
		tq := pqTq & 0x0F
		if tq > 3 {
			return ErrInvalidDQT
		}
		off++

		// Table entries arrive in zigzag order, like the coefficients.
		if pq == 0 {
			if off+64 > len(data) {
				return ErrInvalidDQT
			}
			for i := 0; i < 64; i++ {
				d.qtables[tq][zigZag[i]] = uint16(data[off+i])
			}
			off += 64
		} else {
			if off+128 > len(data) {
				return ErrInvalidDQT
			}
			for i := 0; i < 64; i++ {
				d.qtables[tq][zigZag[i]] = uint16(data[off+i*2])<<8 | uint16(data[off+i*2+1])
			}
			off += 128
		}
	}
	return nil
}

func (d *decoder) parseDHT(r *reader) error {
	data, err := r.readSegment()
	if err != nil {
		return err
	}

	off := 0
	for off < len(data) {
		tcTh := data[off]
		tc := tcTh >> 4
		th := tcTh & 0x0F
		if th > 3 {
			return ErrInvalidDHT
		}
		off++

		table := &huffmanTable{}
		total := 0
		for i := 0; i < 16; i++ {
			if off >= len(data) {
				return ErrInvalidDHT
			}
			table.bits[i] = int(data[off])
			total += table.bits[i]
			off++
		}
		if off+total > len(data) {
			return ErrInvalidDHT
		}
		table.values = make([]byte, total)
		copy(table.values, data[off:off+total])
		off += total
		table.build()

		if tc == 0 {
			d.dcTables[th] = table
		} else {
			d.acTables[th] = table
		}
	}
	return nil
}

func (d *decoder) parseDRI(r *reader) error {
	data, err := r.readSegment()
	if err != nil {
		return err
	}
	if len(data) != 2 {
		return ErrInvalidDRI
	}
	d.restartInt = int(data[0])<<8 | int(data[1])
	return nil
}

func (d *decoder) parseSOS(r *reader) error {
	data, err := r.readSegment()
	if err != nil {
		return err
	}
	if len(data) < 1 {
		return ErrInvalidSOS
	}

	ns := int(data[0])
	if len(data) < 1+ns*2+3 {
		return ErrInvalidSOS
	}

	for i := 0; i < ns; i++ {
		cs := data[1+i*2]
		tdTa := data[1+i*2+1]

		var comp *component
		for _, c := range d.components {
			if c.id == cs {
				comp = c
				break
			}
		}
		if comp == nil {
			return ErrInvalidSOS
		}
		comp.dcTableSelector = int(tdTa >> 4)
		comp.acTableSelector = int(tdTa & 0x0F)
	}

	return nil
}

// decodeScan collects the entropy-coded bytes (dropping restart markers
// along the way but keeping 0xFF 0x00 stuffing pairs, which the Huffman
// decoder undoes) and decodes every MCU in them.
func (d *decoder) decodeScan(r *reader) error {
	var scanData bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if b == 0xFF {
			b2, err := r.ReadByte()
			if err == io.EOF {
				scanData.WriteByte(b)
				break
			}
			if err != nil {
				return err
			}
			switch {
			case b2 == 0x00:
				scanData.WriteByte(b)
				scanData.WriteByte(b2)
			case isRST(0xFF00 | uint16(b2)):
				continue
			default:
				// Reached the marker following the scan (EOI in a single-
				// scan baseline file); stop collecting.
				return d.decodeMCUs(scanData.Bytes())
			}
		} else {
			scanData.WriteByte(b)
		}
	}
	return d.decodeMCUs(scanData.Bytes())
}

func (d *decoder) decodeMCUs(scanData []byte) error {
	huff := newHuffmanDecoder(bytes.NewReader(scanData))

	maxH, maxV := 1, 1
	for _, c := range d.components {
		if c.h > maxH {
			maxH = c.h
		}
		if c.v > maxV {
			maxV = c.v
		}
	}
	mcuCols := divCeil(d.width, maxH*8)
	mcuRows := divCeil(d.height, maxV*8)

	mcu := 0
	for mcuY := 0; mcuY < mcuRows; mcuY++ {
		for mcuX := 0; mcuX < mcuCols; mcuX++ {
			if d.restartInt > 0 && mcu > 0 && mcu%d.restartInt == 0 {
				huff.restart()
				for _, comp := range d.components {
					comp.dcPred = 0
				}
			}
			mcu++
			for _, comp := range d.components {
				for v := 0; v < comp.v; v++ {
					for h := 0; h < comp.h; h++ {
						if err := d.decodeBlock(huff, comp, mcuX*comp.h+h, mcuY*comp.v+v); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return nil
}

// decodeBlock Huffman-decodes one 8x8 block's coefficients and writes them,
// de-zigzagged, into comp.data. It does not dequantize: the deblocking
// solver needs the bare stored integer to build its per-coefficient
// quantization intervals, not a pre-multiplied value.
func (d *decoder) decodeBlock(huff *huffmanDecoder, comp *component, blockX, blockY int) error {
	var coef [64]int32

	dcTable := d.dcTables[comp.dcTableSelector]
	if dcTable == nil {
		return ErrInvalidDHT
	}
	s, err := huff.decode(dcTable)
	if err != nil {
		return err
	}
	diff, err := huff.receiveExtend(int(s))
	if err != nil {
		return err
	}
	comp.dcPred += diff
	coef[0] = int32(comp.dcPred)

	acTable := d.acTables[comp.acTableSelector]
	if acTable == nil {
		return ErrInvalidDHT
	}

	k := 1
	for k < 64 {
		rs, err := huff.decode(acTable)
		if err != nil {
			return err
		}
		run := int(rs >> 4)
		size := int(rs & 0x0F)

		if size == 0 {
			if run == 15 {
				k += 16
				continue
			}
			break // EOB
		}
		k += run
		if k >= 64 {
			return ErrInvalidData
		}
		val, err := huff.receiveExtend(size)
		if err != nil {
			return err
		}
		coef[zigZag[k]] = int32(val)
		k++
	}

	if blockX >= comp.widthBlocks || blockY >= comp.heightBlocks {
		return nil
	}
	off := (blockY*comp.widthBlocks + blockX) * 64
	copy(comp.data[off:off+64], coef[:])
	return nil
}

func (d *decoder) result() (*Image, error) {
	img := &Image{Width: d.width, Height: d.height}
	for i, comp := range d.components {
		img.Planes[i] = Plane{
			H:     comp.heightBlocks * 8,
			W:     comp.widthBlocks * 8,
			Coef:  comp.data,
			Quant: d.qtables[comp.tq],
		}
	}
	return img, nil
}
