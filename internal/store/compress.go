package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Compressed wraps a store and zstd-compresses values on write. Values that
// were stored uncompressed are returned as is, so compression can be turned on
// for an existing save directory.
type Compressed struct {
	inner Store
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

func NewCompressed(inner Store) (*Compressed, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	return &Compressed{inner: inner, enc: enc, dec: dec}, nil
}

func (c *Compressed) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", key, err)
	}
	return out, nil
}

func (c *Compressed) Put(ctx context.Context, key string, value []byte) error {
	return c.inner.Put(ctx, key, c.enc.EncodeAll(value, nil))
}

func (c *Compressed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *Compressed) List(ctx context.Context, prefix string) ([]string, error) {
	return c.inner.List(ctx, prefix)
}

func (c *Compressed) Close() error {
	c.dec.Close()
	_ = c.enc.Close()
	return c.inner.Close()
}
