package iec_protocol

// scriptReader serves its chunks one byte at a time. An empty chunk produces
// a single (0, nil) read, which is how a serial port with a read timeout
// reports a silent line. Once all chunks are spent every read times out.
type scriptReader struct {
	chunks [][]byte
	i, j   int
}

func newScriptReader(chunks ...[]byte) *scriptReader {
	return &scriptReader{chunks: chunks}
}

func (r *scriptReader) Read(p []byte) (int, error) {
	if r.i >= len(r.chunks) {
		return 0, nil
	}
	chunk := r.chunks[r.i]
	if len(chunk) == 0 {
		r.i++
		return 0, nil
	}
	p[0] = chunk[r.j]
	r.j++
	if r.j >= len(chunk) {
		r.i++
		r.j = 0
	}
	return 1, nil
}

func (r *scriptReader) drained() bool {
	return r.i >= len(r.chunks)
}
