package pipe

import "github.com/go-faster/errors"

// Validate checks that job can be run without reading or writing out of
// bounds.
func (j *Job) Validate(dst []byte) error {
	if len(j.CompressedSizes) != len(j.OriginalSizes) {
		return errors.Errorf("sizes mismatch: %d compressed, %d original",
			len(j.CompressedSizes), len(j.OriginalSizes),
		)
	}
	if j.Offset%LineSize != 0 {
		return errors.Errorf("offset %d is not aligned to %d", j.Offset, LineSize)
	}
	if end := uint64(j.Offset) + uint64(j.HeaderSize); end > uint64(len(j.Header)) {
		return errors.Errorf("header region too short: %d < %d", len(j.Header), end)
	}
	if len(j.CompressedSizes) > 0 {
		if j.BlockSizeKB == 0 {
			return errors.New("zero block size")
		}
	}
	blockSize := uint64(j.BlockSizeKB) * 1024
	for i, cs := range j.CompressedSizes {
		os := j.OriginalSizes[i]
		if cs&Stored != 0 || os&Stored != 0 {
			return errors.Errorf("block %d: size overflow", i)
		}
		if uint64(os) > blockSize {
			return errors.Errorf("block %d: original size %d > block size %d", i, os, blockSize)
		}
		region, name := j.Compressed, "compressed"
		if j.IsStored(i) {
			region, name = j.Original, "original"
		} else if cs > os {
			return errors.Errorf("block %d: compressed size %d > original %d", i, cs, os)
		}
		if end := blockSize*uint64(i) + uint64(cs); end > uint64(len(region)) {
			return errors.Errorf("block %d: %s region too short: %d < %d", i, name, len(region), end)
		}
	}
	if n := j.Written(); n > uint64(len(dst)) {
		return errors.Errorf("destination too short: %d < %d", len(dst), n)
	}
	if n := j.Written(); n > uint64(SizeMask) {
		return errors.Errorf("output size %d overflows", n)
	}
	return nil
}
