package ansi

import (
	"sync"
)

// A pool is a generic wrapper around a sync.Pool
type pool[T any] struct {
	pool sync.Pool
}

// Create a new pool which will use the fn to create new instances of T
func newPool[T any](fn func() T) pool[T] {
	return pool[T]{
		pool: sync.Pool{New: func() interface{} { return fn() }},
	}
}

// Get a new T
func (p *pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put a T back in the pool
func (p *pool[T]) Put(x T) {
	p.pool.Put(x)
}

// buffer accumulates the payload of an in-flight OSC, APC, or DCS string
type buffer struct {
	b []byte
}

func (b *buffer) WriteByte(c byte) error {
	b.b = append(b.b, c)
	return nil
}

func (b *buffer) Len() int {
	return len(b.b)
}

func (b *buffer) Bytes() []byte {
	return b.b
}

func (b *buffer) Reset() {
	b.b = b.b[:0]
}

var bufPool = newPool(func() *buffer { return &buffer{} })

func getBuf() *buffer {
	buf := bufPool.Get()
	buf.Reset()
	return buf
}

func putBuf(buf *buffer) {
	if buf == nil {
		return
	}
	bufPool.Put(buf)
}
