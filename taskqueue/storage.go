package taskqueue

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

const storageBufferSize = 64 << 10

// Snapshot encodes the pending calls, in execution order, with MessagePack.
// The halt flag is not part of the snapshot.
func (f *fifo[A]) Snapshot() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.encode(&buf); err != nil {
		return nil, wrapStorageError("encode", "", err)
	}

	return buf.Bytes(), nil
}

// Restore decodes calls produced by Snapshot and appends them to the tail.
func (f *fifo[A]) Restore(data []byte) error {
	if err := f.decode(bytes.NewReader(data)); err != nil {
		return wrapStorageError("decode", "", err)
	}

	return nil
}

// SaveFile writes the pending calls to path. The file is written to a temporary
// name and renamed into place.
func (f *fifo[A]) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return wrapStorageError("mkdir", path, err)
	}

	tempPath := path + ".tmp"

	file, err := os.OpenFile(tempPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return wrapStorageError("save", tempPath, err)
	}
	defer func() {
		file.Close()
		os.Remove(tempPath)
	}()

	writer := bufio.NewWriterSize(file, storageBufferSize)
	if err := f.encode(writer); err != nil {
		return wrapStorageError("encode", tempPath, err)
	}

	if err := writer.Flush(); err != nil {
		return wrapStorageError("flush", tempPath, err)
	}

	if err := file.Sync(); err != nil {
		return wrapStorageError("sync", tempPath, err)
	}

	if err := file.Close(); err != nil {
		return wrapStorageError("close", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return wrapStorageError("rename", path, err)
	}

	f.cfg.logger.Debug("saved pending calls", "path", path)

	return nil
}

// LoadFile appends the calls stored at path to the tail. A missing file is not
// an error.
func (f *fifo[A]) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return wrapStorageError("open", path, err)
	}
	defer file.Close()

	if err := f.decode(bufio.NewReaderSize(file, storageBufferSize)); err != nil {
		return wrapStorageError("decode", path, err)
	}

	return nil
}

func (f *fifo[A]) encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(f.items())
}

func (f *fifo[A]) decode(r io.Reader) error {
	var calls []A
	if err := msgpack.NewDecoder(r).Decode(&calls); err != nil {
		return err
	}

	f.appendAll(calls)

	return nil
}
