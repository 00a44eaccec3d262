package memeforce

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// Some dumps carry a 512 byte copier header in front of the ROM
const copierHeader = 0x200

func checksum(b []byte) string {
	return fmt.Sprintf("%.*X", crc32.Size<<1, crc32.ChecksumIEEE(b))
}

// ChecksumFile returns the CRC-32 of the ROM image at file, ignoring any
// copier header
func ChecksumFile(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	if info.Size()&0x3ff == copierHeader {
		if _, err = f.Seek(copierHeader, io.SeekCurrent); err != nil {
			return "", err
		}
	}

	h := crc32.NewIEEE()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%.*X", crc32.Size<<1, h.Sum(nil)), nil
}
