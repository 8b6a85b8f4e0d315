package persist

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// maxArchiveSize bounds decompressed archives; a save is a few KB at most.
const maxArchiveSize = 64 << 20

// WriteArchive writes a zstd-compressed copy of a save blob to w.
func WriteArchive(w io.Writer, blob []byte) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("persist: cannot create encoder: %w", err)
	}
	if _, err := enc.Write(blob); err != nil {
		enc.Close()
		return fmt.Errorf("persist: cannot compress archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("persist: cannot finish archive: %w", err)
	}
	return nil
}

// ReadArchive decompresses an archive written by WriteArchive.
// The blob is returned as is; run it through Restore before trusting it.
func ReadArchive(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(maxArchiveSize))
	if err != nil {
		return nil, fmt.Errorf("persist: cannot create decoder: %w", err)
	}
	defer dec.Close()

	blob, err := io.ReadAll(io.LimitReader(dec, maxArchiveSize+1))
	if err != nil {
		return nil, fmt.Errorf("persist: cannot decompress archive: %w", err)
	}
	if len(blob) > maxArchiveSize {
		return nil, fmt.Errorf("persist: archive exceeds %d bytes", maxArchiveSize)
	}
	return blob, nil
}
