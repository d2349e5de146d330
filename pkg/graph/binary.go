package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"unsafe"
)

// Binary graph file layout, generalized from the teacher's single-Weight
// format to a named multi-metric matrix:
//
//	magic      [8]byte  "PTHFORGE"
//	version    uint32   = 2
//	numNodes   uint32
//	numEdges   uint32
//	contracted uint8    (1 if NodeLevel/FwdShortcutA/B carry real CH output)
//	dim        uint32   (number of metric columns)
//	metrics    dim * (nameLen uint32, name []byte, unit uint8)
//	nodeID     numNodes * int64
//	nodeLat    numNodes * float64
//	nodeLon    numNodes * float64
//	nodeLevel  numNodes * uint32
//	fwdFirstOut (numNodes+1) * uint32
//	fwdHead    numEdges * uint32
//	fwdMetrics numEdges*dim * float64
//	fwdShortcutA numEdges * uint32
//	fwdShortcutB numEdges * uint32
//	bwdFirstOut (numNodes+1) * uint32
//	bwdHead    numEdges * uint32
//	bwdToFwd   numEdges * uint32
//	crc32      uint32 (of everything above)
var binaryMagic = [8]byte{'P', 'T', 'H', 'F', 'O', 'R', 'G', 'E'}

const binaryVersion = uint32(2)

// crc32Writer wraps an io.Writer, accumulating a running CRC32 of
// everything written through it. Mirrors the teacher's CRC32Writer.
type crc32Writer struct {
	w   io.Writer
	sum uint32
}

func newCRC32Writer(w io.Writer) *crc32Writer { return &crc32Writer{w: w} }

func (c *crc32Writer) Write(p []byte) (int, error) {
	c.sum = crc32.Update(c.sum, crc32.IEEETable, p)
	return c.w.Write(p)
}

type crc32Reader struct {
	r   io.Reader
	sum uint32
}

func newCRC32Reader(r io.Reader) *crc32Reader { return &crc32Reader{r: r} }

func (c *crc32Reader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.sum = crc32.Update(c.sum, crc32.IEEETable, p[:n])
	return n, err
}

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(bytes)
	return err
}

func writeEdgeIdxSlice(w io.Writer, s []EdgeIdx) error {
	if len(s) == 0 {
		return nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(bytes)
	return err
}

func writeNodeIdxSlice(w io.Writer, s []NodeIdx) error {
	if len(s) == 0 {
		return nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(bytes)
	return err
}

func writeInt64Slice(w io.Writer, s []int64) error {
	if len(s) == 0 {
		return nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(bytes)
	return err
}

func writeFloat64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(bytes)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	s := make([]uint32, n)
	if n == 0 {
		return s, nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	_, err := io.ReadFull(r, bytes)
	return s, err
}

func readEdgeIdxSlice(r io.Reader, n int) ([]EdgeIdx, error) {
	s := make([]EdgeIdx, n)
	if n == 0 {
		return s, nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	_, err := io.ReadFull(r, bytes)
	return s, err
}

func readNodeIdxSlice(r io.Reader, n int) ([]NodeIdx, error) {
	s := make([]NodeIdx, n)
	if n == 0 {
		return s, nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	_, err := io.ReadFull(r, bytes)
	return s, err
}

func readInt64Slice(r io.Reader, n int) ([]int64, error) {
	s := make([]int64, n)
	if n == 0 {
		return s, nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	_, err := io.ReadFull(r, bytes)
	return s, err
}

func readFloat64Slice(r io.Reader, n int) ([]float64, error) {
	s := make([]float64, n)
	if n == 0 {
		return s, nil
	}
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	_, err := io.ReadFull(r, bytes)
	return s, err
}

// WriteBinary serializes g to path atomically: writes to path+".tmp"
// then renames over path, so a reader never observes a partial file.
func WriteBinary(g *Graph, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("graph: create temp file: %w", err)
	}
	defer os.Remove(tmp)

	buf := bufio.NewWriter(f)
	cw := newCRC32Writer(buf)

	if _, err := cw.Write(binaryMagic[:]); err != nil {
		f.Close()
		return err
	}
	if err := binary.Write(cw, binary.LittleEndian, binaryVersion); err != nil {
		f.Close()
		return err
	}
	if err := binary.Write(cw, binary.LittleEndian, g.NumNodes); err != nil {
		f.Close()
		return err
	}
	if err := binary.Write(cw, binary.LittleEndian, g.NumEdges); err != nil {
		f.Close()
		return err
	}
	var contractedByte uint8
	if g.Contracted {
		contractedByte = 1
	}
	if err := binary.Write(cw, binary.LittleEndian, contractedByte); err != nil {
		f.Close()
		return err
	}
	if err := binary.Write(cw, binary.LittleEndian, uint32(len(g.Metrics))); err != nil {
		f.Close()
		return err
	}
	for _, m := range g.Metrics {
		nameBytes := []byte(m.Name)
		if err := binary.Write(cw, binary.LittleEndian, uint32(len(nameBytes))); err != nil {
			f.Close()
			return err
		}
		if _, err := cw.Write(nameBytes); err != nil {
			f.Close()
			return err
		}
		if err := binary.Write(cw, binary.LittleEndian, uint8(m.Unit)); err != nil {
			f.Close()
			return err
		}
	}

	writers := []func() error{
		func() error { return writeInt64Slice(cw, g.NodeID) },
		func() error { return writeFloat64Slice(cw, g.NodeLat) },
		func() error { return writeFloat64Slice(cw, g.NodeLon) },
		func() error { return writeUint32Slice(cw, g.NodeLevel) },
		func() error { return writeUint32Slice(cw, g.FwdFirstOut) },
		func() error { return writeNodeIdxSlice(cw, g.FwdHead) },
		func() error { return writeFloat64Slice(cw, g.FwdMetrics) },
		func() error { return writeEdgeIdxSlice(cw, g.FwdShortcutA) },
		func() error { return writeEdgeIdxSlice(cw, g.FwdShortcutB) },
		func() error { return writeUint32Slice(cw, g.BwdFirstOut) },
		func() error { return writeNodeIdxSlice(cw, g.BwdHead) },
		func() error { return writeEdgeIdxSlice(cw, g.BwdToFwd) },
	}
	for _, wr := range writers {
		if err := wr(); err != nil {
			f.Close()
			return err
		}
	}

	if err := binary.Write(buf, binary.LittleEndian, cw.sum); err != nil {
		f.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	return os.Rename(tmp, absPath)
}

// ReadBinary deserializes a Graph previously written by WriteBinary,
// validating its magic, version and trailing CRC32.
func ReadBinary(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graph: open %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewReader(f)
	cr := newCRC32Reader(buf)

	var magic [8]byte
	if _, err := io.ReadFull(cr, magic[:]); err != nil {
		return nil, fmt.Errorf("graph: read magic: %w", err)
	}
	if magic != binaryMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptBinary)
	}

	var version, numNodes, numEdges, dim uint32
	if err := binary.Read(cr, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != binaryVersion {
		return nil, fmt.Errorf("%w: version %d unsupported", ErrCorruptBinary, version)
	}
	if err := binary.Read(cr, binary.LittleEndian, &numNodes); err != nil {
		return nil, err
	}
	if err := binary.Read(cr, binary.LittleEndian, &numEdges); err != nil {
		return nil, err
	}
	var contractedByte uint8
	if err := binary.Read(cr, binary.LittleEndian, &contractedByte); err != nil {
		return nil, err
	}
	if err := binary.Read(cr, binary.LittleEndian, &dim); err != nil {
		return nil, err
	}

	metrics := make([]MetricSpec, dim)
	for i := range metrics {
		var nameLen uint32
		if err := binary.Read(cr, binary.LittleEndian, &nameLen); err != nil {
			return nil, err
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(cr, nameBytes); err != nil {
			return nil, err
		}
		var unit uint8
		if err := binary.Read(cr, binary.LittleEndian, &unit); err != nil {
			return nil, err
		}
		metrics[i] = MetricSpec{Name: string(nameBytes), Unit: MetricUnit(unit)}
	}

	g := &Graph{Contracted: contractedByte != 0, Metrics: metrics, NumNodes: numNodes, NumEdges: numEdges}

	var rerr error
	g.NodeID, rerr = readInt64Slice(cr, int(numNodes))
	if rerr != nil {
		return nil, rerr
	}
	g.NodeLat, rerr = readFloat64Slice(cr, int(numNodes))
	if rerr != nil {
		return nil, rerr
	}
	g.NodeLon, rerr = readFloat64Slice(cr, int(numNodes))
	if rerr != nil {
		return nil, rerr
	}
	g.NodeLevel, rerr = readUint32Slice(cr, int(numNodes))
	if rerr != nil {
		return nil, rerr
	}
	g.FwdFirstOut, rerr = readUint32Slice(cr, int(numNodes)+1)
	if rerr != nil {
		return nil, rerr
	}
	g.FwdHead, rerr = readNodeIdxSlice(cr, int(numEdges))
	if rerr != nil {
		return nil, rerr
	}
	g.FwdMetrics, rerr = readFloat64Slice(cr, int(numEdges)*int(dim))
	if rerr != nil {
		return nil, rerr
	}
	g.FwdShortcutA, rerr = readEdgeIdxSlice(cr, int(numEdges))
	if rerr != nil {
		return nil, rerr
	}
	g.FwdShortcutB, rerr = readEdgeIdxSlice(cr, int(numEdges))
	if rerr != nil {
		return nil, rerr
	}
	g.BwdFirstOut, rerr = readUint32Slice(cr, int(numNodes)+1)
	if rerr != nil {
		return nil, rerr
	}
	g.BwdHead, rerr = readNodeIdxSlice(cr, int(numEdges))
	if rerr != nil {
		return nil, rerr
	}
	g.BwdToFwd, rerr = readEdgeIdxSlice(cr, int(numEdges))
	if rerr != nil {
		return nil, rerr
	}

	wantSum := cr.sum
	var gotSum uint32
	if err := binary.Read(buf, binary.LittleEndian, &gotSum); err != nil {
		return nil, fmt.Errorf("graph: read crc: %w", err)
	}
	if gotSum != wantSum {
		return nil, fmt.Errorf("%w: crc mismatch", ErrCorruptBinary)
	}

	if err := validateCSR(g); err != nil {
		return nil, err
	}

	return g, nil
}

// validateCSR checks the offset-monotonicity and bwd/fwd-bijection
// invariants on a freshly-read graph.
func validateCSR(g *Graph) error {
	for n := uint32(0); n < g.NumNodes; n++ {
		if g.FwdFirstOut[n] > g.FwdFirstOut[n+1] {
			return fmt.Errorf("%w: FwdFirstOut not monotonic at node %d", ErrCorruptBinary, n)
		}
		if g.BwdFirstOut[n] > g.BwdFirstOut[n+1] {
			return fmt.Errorf("%w: BwdFirstOut not monotonic at node %d", ErrCorruptBinary, n)
		}
	}
	if g.FwdFirstOut[g.NumNodes] != g.NumEdges {
		return fmt.Errorf("%w: FwdFirstOut total != NumEdges", ErrCorruptBinary)
	}
	if g.BwdFirstOut[g.NumNodes] != g.NumEdges {
		return fmt.Errorf("%w: BwdFirstOut total != NumEdges", ErrCorruptBinary)
	}
	seen := make([]bool, g.NumEdges)
	for _, fwd := range g.BwdToFwd {
		if uint32(fwd) >= g.NumEdges {
			return fmt.Errorf("%w: BwdToFwd out of range", ErrCorruptBinary)
		}
		if seen[fwd] {
			return fmt.Errorf("%w: BwdToFwd not a bijection", ErrCorruptBinary)
		}
		seen[fwd] = true
	}
	return nil
}
