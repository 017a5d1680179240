package nes

// sampleQueue is a fixed-size FIFO of mixed audio samples. When full the
// oldest sample is overwritten.
type sampleQueue struct {
	buf   []float32
	head  int
	count int
}

func newSampleQueue(size int) *sampleQueue {
	return &sampleQueue{buf: make([]float32, size)}
}

func (q *sampleQueue) push(s float32) {
	tail := (q.head + q.count) % len(q.buf)
	q.buf[tail] = s
	if q.count == len(q.buf) {
		q.head = (q.head + 1) % len(q.buf)
		return
	}
	q.count++
}

func (q *sampleQueue) pop() (float32, bool) {
	if q.count == 0 {
		return 0, false
	}
	s := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return s, true
}

func (q *sampleQueue) len() int {
	return q.count
}

func (q *sampleQueue) reset() {
	q.head = 0
	q.count = 0
}
